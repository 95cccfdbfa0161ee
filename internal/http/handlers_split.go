package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"billsplit/internal/core"
	"billsplit/internal/eval"
)

// splitRow is one rendered line of the split result.
type splitRow struct {
	Name     string
	Subtotal string
	Share    string
}

// splitView is the data passed to the split results template.
type splitView struct {
	Empty        bool
	EqualSplit   bool
	Subtotal     string
	OtherCharges string
	GrandTotal   string
	Rows         []splitRow
	Warnings     []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	names, err := s.cachedNames(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Roster list error", "error", err)
	}

	data := struct {
		People []string
	}{People: names}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSplit computes a bill split from the submitted form and renders the
// results partial. Amount fields accept arithmetic expressions; an invalid
// expression produces a warning and counts as zero.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	participants := ParseParticipants(r.Form)

	var warnings []string
	people := make([]core.PersonAmount, 0, len(participants))
	for _, p := range participants {
		if p.Name == "" && p.Amount == "" {
			continue
		}
		if p.Name == "" {
			warnings = append(warnings, "Skipped an entry with no name")
			continue
		}

		amount, err := eval.Evaluate(p.Amount)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: invalid amount %q, counted as 0", p.Name, p.Amount))
			amount = decimal.Zero
		}
		people = append(people, core.PersonAmount{Name: p.Name, Subtotal: amount})
	}

	otherInput := r.Form.Get("other")
	other, err := eval.Evaluate(otherInput)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid other charges %q, counted as 0", otherInput))
		other = decimal.Zero
	}

	result, ok := core.Allocate(people, other)

	view := splitView{
		Empty:    !ok,
		Warnings: warnings,
	}
	if ok {
		view.EqualSplit = result.EqualSplit
		view.Subtotal = formatAmount(result.Subtotal)
		view.OtherCharges = formatAmount(other)
		view.GrandTotal = formatAmount(result.GrandTotal)
		for i, share := range result.Shares {
			view.Rows = append(view.Rows, splitRow{
				Name:     share.Name,
				Subtotal: formatAmount(people[i].Subtotal),
				Share:    formatAmount(share.Amount),
			})
		}
		s.structured.LogSplitComputed(r.Context(), len(result.Shares),
			view.Subtotal, view.GrandTotal, result.EqualSplit)
	}

	body, renderErr := s.renderSplitResults(view)
	if renderErr != nil {
		slog.ErrorContext(r.Context(), "Split template execution failed", "error", renderErr)
		InternalServerError("Failed to render results").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSplitComputed(len(view.Rows)).
		BodyHTML(body).
		Write(w)
}

func (s *Server) renderSplitResults(view splitView) (string, error) {
	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "split_results.html", view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// handleEvaluate evaluates a single arithmetic expression, used by the form
// for live amount previews. Accepts form-encoded or JSON bodies.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	expression := parser.Get("expression")
	value, err := eval.Evaluate(expression)
	if err != nil {
		var invalidErr *eval.InvalidExpressionError
		reason := "invalid expression"
		if errors.As(err, &invalidErr) {
			reason = invalidErr.Reason
		}
		UnprocessableEntityError(reason).Write(w)
		return
	}

	NewHTMXResponse().
		BodyHTML(`<span class="eval-result">` + template.HTMLEscapeString(value.String()) + `</span>`).
		Write(w)
}
