// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureDomains contiene dominios raíz válidos.
var FixtureDomains = []string{
	"example.com",
	"example.org",
	"hackerone.com",
	"bbc.co.uk",
}

// FixtureInvalidDomains contiene entradas que no son dominios raíz válidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"2001:db8::1",
	"-invalid.com",
	"invalid-.com",
	".example.com",
	"example..com",
	"com",
	"co.uk",
}

// FixtureCrtshJSON simula una respuesta de crt.sh para example.com.
const FixtureCrtshJSON = `[
  {"issuer_name":"C=US, O=Let's Encrypt","name_value":"www.example.com\nexample.com","serial_number":"01"},
  {"issuer_name":"C=US, O=Let's Encrypt","name_value":"*.api.example.com","serial_number":"02"},
  {"issuer_name":"C=US, O=Let's Encrypt","name_value":"mail.example.com\nevil.com","serial_number":"03"}
]`

// FixtureHackertargetCSV simula una respuesta de hackertarget.
const FixtureHackertargetCSV = "www.example.com,93.184.216.34\nmail.example.com,93.184.216.35\n"
