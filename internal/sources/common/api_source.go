// Package common contiene las piezas compartidas por los adaptadores de proveedores.
package common

import (
	"context"
	"encoding/json"
	"strings"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/httpclient"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/validator"
)

// ParseFunc extrae los nombres crudos del body de respuesta de un proveedor.
type ParseFunc func(body []byte, host domain.Host) ([]string, error)

// APISpec describe un proveedor de una sola petición: a dónde llamar, qué headers
// enviar y cómo leer la respuesta.
type APISpec struct {
	Name string

	// BaseURL scheme://host del proveedor; SourceOptions.BaseURL lo sustituye.
	BaseURL string

	// Path construye path y query para el host, ej: "/anubis/subdomains/example.com".
	Path func(host domain.Host, creds Credentials) string

	// Headers headers extra de la petición (opcional).
	Headers func(creds Credentials) map[string]string

	// Credentials variables de entorno que necesita el proveedor, todas obligatorias.
	Credentials []string

	Parse ParseFunc
}

// Credentials valores de credenciales resueltos para un adaptador.
type Credentials map[string]string

// Get retorna el valor de env, o "".
func (c Credentials) Get(env string) string { return c[env] }

// APISource es una ports.Source construida a partir de un APISpec.
type APISource struct {
	spec    APISpec
	baseURL string
	creds   Credentials
	client  *httpclient.Client
	logger  logx.Logger
}

// NewAPISource construye un adaptador desde spec y las opciones de la factory.
func NewAPISource(spec APISpec, opts ports.SourceOptions) (*APISource, error) {
	if spec.Name == "" || spec.Path == nil || spec.Parse == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "api source spec needs name, path and parser")
	}

	client, logger, err := Defaults(opts)
	if err != nil {
		return nil, err
	}

	creds := make(Credentials, len(spec.Credentials))
	for _, env := range spec.Credentials {
		creds[env] = opts.Credential(env)
	}

	return &APISource{
		spec:    spec,
		baseURL: ResolveBaseURL(opts.BaseURL, spec.BaseURL),
		creds:   creds,
		client:  client,
		logger:  logger,
	}, nil
}

// Defaults completa cliente y logger cuando las opciones de la factory no los traen.
func Defaults(opts ports.SourceOptions) (*httpclient.Client, logx.Logger, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logx.NewSilent()
	}
	client := opts.Client
	if client == nil {
		c, err := httpclient.New(httpclient.DefaultConfig(), logger)
		if err != nil {
			return nil, nil, err
		}
		client = c
	}
	return client, logger, nil
}

// ResolveBaseURL retorna override si existe, si no def, sin barra final.
func ResolveBaseURL(override, def string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	return strings.TrimRight(def, "/")
}

// Name retorna el nombre del proveedor.
func (s *APISource) Name() string {
	return s.spec.Name
}

// URL retorna la URL de la petición para host.
func (s *APISource) URL(host domain.Host) string {
	return s.baseURL + s.spec.Path(host, s.creds)
}

// Fetch consulta al proveedor una vez y retorna los nombres dentro del host.
func (s *APISource) Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error) {
	if err := RequireCredentials(s.spec.Name, s.creds, s.spec.Credentials...); err != nil {
		return nil, err
	}

	var headers map[string]string
	if s.spec.Headers != nil {
		headers = s.spec.Headers(s.creds)
	}

	body, err := s.client.Fetch(ctx, s.URL(host), headers)
	if err != nil {
		return nil, errors.Wrap(err, s.spec.Name)
	}

	names, err := s.spec.Parse(body, host)
	if err != nil {
		return nil, errors.Protocol(err, s.spec.Name)
	}

	set := InScope(host, names)
	s.logger.Debug("provider answered", "host", host.String(), "raw", len(names), "in_scope", set.Len())
	return set, nil
}

// RequireCredentials falla con ErrCredentialMissing si alguna variable no tiene valor.
func RequireCredentials(source string, creds Credentials, envs ...string) error {
	for _, env := range envs {
		if strings.TrimSpace(creds.Get(env)) == "" {
			return errors.Wrapf(errors.ErrCredentialMissing, "%s needs %s", source, env)
		}
	}
	return nil
}

// InScope limpia los nombres (espacios, prefijo "*.", punto final) y conserva los
// que son el host o uno de sus subdominios. No cambia mayúsculas.
func InScope(host domain.Host, names []string) domain.SubdomainSet {
	set := domain.NewSubdomainSet()
	for _, raw := range names {
		name := validator.CleanName(raw)
		if name == "" || !host.InScope(name) {
			continue
		}
		set.Add(name)
	}
	return set
}

// DecodeJSON decodifica body en v; los fallos se reportan como respuesta inválida.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Join(errors.ErrInvalidResponse, err)
	}
	return nil
}

// StringList parsea un array JSON de strings.
func StringList(body []byte, _ domain.Host) ([]string, error) {
	var names []string
	if err := DecodeJSON(body, &names); err != nil {
		return nil, err
	}
	return names, nil
}
