package kmlgen

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tdewolff/minify/v2"
	mxml "github.com/tdewolff/minify/v2/xml"

	"github.com/maplemark/vec2kml/internal/vector"
)

// Export transcodes the collection, serializes the document once and
// writes it to path. On success the only console output is the
// confirmation line naming the output file.
func Export(col *vector.Collection, path string, opts Options) error {
	doc := Transcode(col, opts)

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return fmt.Errorf("serialize KML: %w", err)
	}

	out := buf.Bytes()
	if opts.Minify {
		compact, err := minifyKML(out)
		if err != nil {
			return fmt.Errorf("minify KML: %w", err)
		}
		out = compact
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		return err
	}
	// We care about write errors on close
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("KML saved to: %s\n", path)
	return nil
}

// minifyKML strips indentation and inter-element whitespace.
func minifyKML(b []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/xml", mxml.Minify)
	return m.Bytes("text/xml", b)
}
