//go:build noxlsx

package report

import (
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/evaluate"
)

// WorkbookSupported reports whether this binary can write xlsx files.
const WorkbookSupported = false

func encodeWorkbook([]evaluate.Result) ([]byte, error) {
	return nil, errors.ErrWorkbookUnavailable
}
