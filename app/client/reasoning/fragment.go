package reasoning

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
)

type fragment struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// fragmentAccumulator buffers stream bytes until they form a complete
// JSON value. Fragments that can never become valid JSON are dropped
// without corrupting the bytes accumulated after them.
type fragmentAccumulator struct {
	pending []byte
}

func newFragmentAccumulator() *fragmentAccumulator {
	return &fragmentAccumulator{}
}

// feed adds one stream line to the accumulator. It returns the content
// piece and true once the buffered bytes parse as a complete fragment.
func (a *fragmentAccumulator) feed(line []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return "", false
	}

	a.pending = append(a.pending, trimmed...)

	var frag fragment
	err := json.Unmarshal(a.pending, &frag)
	if err == nil {
		a.pending = nil

		if len(frag.Choices) == 0 {
			return "", false
		}

		return frag.Choices[0].Message.Content, true
	}

	if isTruncatedJSON(err, len(a.pending)) && len(a.pending) <= maxFragmentBytes {
		return "", false
	}

	slog.Warn("Dropping malformed reasoning fragment",
		"size", len(a.pending),
		"error", err,
	)
	a.pending = nil

	return "", false
}

// isTruncatedJSON reports whether the buffer merely ends too early,
// as opposed to being malformed somewhere inside. A syntax error at
// the very end of the buffer means more bytes can still complete it.
func isTruncatedJSON(err error, size int) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Offset >= int64(size)
}
