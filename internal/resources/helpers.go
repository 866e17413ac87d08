package resources

import (
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// sessionID extracts {id} from eudoxa://sessions/{id}/record.
func sessionID(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, sessionsURI+"/")
	if !ok {
		return "", errors.NewInvalidRequest("resource %q is not a session URI", uri)
	}
	id, ok := strings.CutSuffix(rest, "/record")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", errors.NewInvalidRequest("resource %q is not a session record URI", uri)
	}
	return id, nil
}
