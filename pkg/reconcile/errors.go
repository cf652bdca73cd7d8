package reconcile

import (
	"strconv"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Sentinels for errors.Is. Reported errors match by code.
var (
	ErrStructural      = vterrors.New(vterrors.CodeStructural)
	ErrMissingLiveNode = vterrors.New(vterrors.CodeMissingLive)
	ErrMissingParent   = vterrors.New(vterrors.CodeMissingParent)
)

func structural(path string, cause error) *vterrors.Error {
	return vterrors.New(vterrors.CodeStructural).WithPath(path).Wrap(cause)
}

func missingLive(path, detail string) *vterrors.Error {
	return vterrors.New(vterrors.CodeMissingLive).WithPath(path).WithDetail(detail)
}

// childPath extends a child-index path: "" + 0 -> "0", "0" + 2 -> "0/2".
func childPath(path string, i int) string {
	if path == "" {
		return strconv.Itoa(i)
	}
	return path + "/" + strconv.Itoa(i)
}
