package web

import (
	"net/http"
	"strconv"
	"strings"

	"schoolerp/internal/adapters/api"
)

// outcome folds a transport error and a success:false envelope into one error.
func outcome[T any](env *api.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	return env.Err()
}

// submit runs a form mutation. On success the browser is redirected to back
// with notice; on a 401 it goes to /login; any other failure re-renders the
// page through rerender with the failure's status and message.
func (a *app) submit(w http.ResponseWriter, r *http.Request, back, notice string, rerender func(status int, msg string), do func() error) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if err := do(); err != nil {
		if a.sessionLost(w, r, err) {
			return
		}
		rerender(failureStatus(err), userMessage(err))
		return
	}
	redirectNotice(w, r, back, notice)
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formFloat parses a numeric field. Blank or malformed input yields 0, which
// the request's validation rules then reject.
func formFloat(r *http.Request, name string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(formString(r, name), ",", "."), 64)
	return f
}

func formInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(formString(r, name))
	return n
}

// formList reads a multi-value field, dropping blanks.
func formList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.Form[name] {
		for _, part := range strings.FieldsFunc(v, func(c rune) bool { return c == ',' || c == '\n' || c == ' ' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
