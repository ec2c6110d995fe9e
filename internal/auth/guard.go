package auth

import "net/http"

type Decision int

const (
	Continue Decision = iota
	// Halt means the stage already wrote the response.
	Halt
)

// Stage is one named check in a guard pipeline. On Continue it may return a
// request carrying extra context for the stages and handler after it.
type Stage struct {
	Name  string
	Check func(w http.ResponseWriter, r *http.Request) (*http.Request, Decision)
}

// Pipeline runs stages in order and stops at the first Halt.
func Pipeline(stages ...Stage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range stages {
				nr, d := s.Check(w, r)
				if d == Halt {
					return
				}
				if nr != nil {
					r = nr
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
