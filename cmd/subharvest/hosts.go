// cmd/subharvest/hosts.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// collectHosts junta los hosts de los argumentos y de --list. Si no hay
// ninguno de los dos y stdin no es una terminal, los lee de stdin.
func collectHosts(args []string, listFile string, stdin *os.File) ([]string, error) {
	hosts := append([]string(nil), args...)

	if listFile != "" {
		f, err := os.Open(listFile)
		if err != nil {
			return nil, fmt.Errorf("open host list: %w", err)
		}
		defer f.Close()

		fromFile, err := readHosts(f)
		if err != nil {
			return nil, fmt.Errorf("read host list %s: %w", listFile, err)
		}
		hosts = append(hosts, fromFile...)
	}

	if len(hosts) == 0 && stdin != nil && isPiped(stdin) {
		fromStdin, err := readHosts(stdin)
		if err != nil {
			return nil, fmt.Errorf("read hosts from stdin: %w", err)
		}
		hosts = append(hosts, fromStdin...)
	}

	return hosts, nil
}

// readHosts lee un host por línea; ignora líneas vacías y comentarios (#).
func readHosts(r io.Reader) ([]string, error) {
	var hosts []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	return hosts, sc.Err()
}

func isPiped(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
