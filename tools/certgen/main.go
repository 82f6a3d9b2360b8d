// Command certgen writes a development CA and a server certificate for the
// resource server. An existing ca.crt/ca.key pair in the output directory is
// reused so clients configured with -ca keep trusting new server certificates.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/BlogSync/internal/certgen"
)

func main() {
	dir := flag.String("out", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
	fmt.Printf("Certificates written to %s\n", *dir)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func run(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	caCert := filepath.Join(dir, "ca.crt")
	caKey := filepath.Join(dir, "ca.key")

	ca, err := certgen.LoadCA(caCert, caKey)
	if errors.Is(err, fs.ErrNotExist) {
		var bundle certgen.Bundle
		ca, bundle, err = certgen.NewCA("BlogSync Dev CA", 10*365*24*time.Hour)
		if err != nil {
			return err
		}
		if err := bundle.WriteFiles(caCert, caKey); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	server, err := ca.IssueServer(hosts)
	if err != nil {
		return err
	}
	return server.WriteFiles(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"))
}
