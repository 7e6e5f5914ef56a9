package handlers

import (
	"context"
	"net/http"

	"github.com/hoanghai1803/inkboard/internal/generate"
)

// TextGenerator turns a text into one provider answer.
type TextGenerator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// DesignGenerator answers a design request with a layout and advice.
type DesignGenerator interface {
	Generate(ctx context.Context, text string) (*generate.DesignResult, error)
}

type textRequest struct {
	Text string `json:"text"`
}

// GenerateText handles POST /api/palette and POST /api/enhance. The
// provider's text is returned unchanged as data.
func GenerateText(op string, gen TextGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		out, err := gen.Generate(r.Context(), req.Text)
		if err != nil {
			writeGenerateError(w, op, err)
			return
		}
		writeData(w, http.StatusOK, out)
	}
}

// Chat handles POST /api/chat. A failed secondary call still yields 200
// with a placeholder; only a failed layout call fails the request.
func Chat(gen DesignGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := gen.Generate(r.Context(), req.Text)
		if err != nil {
			writeGenerateError(w, generate.OpChat, err)
			return
		}
		writeData(w, http.StatusOK, res)
	}
}
