// internal/core/domain/outcome.go
package domain

// Outcome es el resultado terminal de invocar una fuente para un host:
// éxito con un set (posiblemente vacío) o fallo con un error, nunca ambos.
type Outcome struct {
	Source     string
	Subdomains SubdomainSet
	Err        error
}

// Success crea un outcome exitoso.
func Success(source string, set SubdomainSet) Outcome {
	if set == nil {
		set = NewSubdomainSet()
	}
	return Outcome{Source: source, Subdomains: set}
}

// Failure crea un outcome fallido.
func Failure(source string, err error) Outcome {
	return Outcome{Source: source, Err: err}
}

// Succeeded indica si el outcome es un éxito.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
