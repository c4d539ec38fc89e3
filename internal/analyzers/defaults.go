package analyzers

import (
	"github.com/custodia-labs/sercha-inspect/internal/analyzers/content"
	"github.com/custodia-labs/sercha-inspect/internal/analyzers/fs"
	"github.com/custodia-labs/sercha-inspect/internal/analyzers/values"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Registrar accepts analyzers.
type Registrar interface {
	Register(a driven.EntityAnalyzer) error
}

// Defaults returns the built-in analyzers.
func Defaults() []driven.EntityAnalyzer {
	return []driven.EntityAnalyzer{
		fs.NewFile(),
		fs.NewDirectory(),
		content.NewStream(),
		content.NewEntry(),
		content.NewDecompressed(),
		values.NewArchive(),
		values.NewImage(),
		values.NewDocument(),
		values.NewXML(),
	}
}

// RegisterDefaults registers all built-in analyzers with r.
func RegisterDefaults(r Registrar) error {
	for _, a := range Defaults() {
		if err := r.Register(a); err != nil {
			return err
		}
	}
	return nil
}
