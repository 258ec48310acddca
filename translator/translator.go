// Package translator turns WebGL2-dialect GLSL into the dialect of the
// current context using goshadertranslator.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/glkit/shader"
)

var (
	shared     *gst.ShaderTranslator
	sharedErr  error
	sharedOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first
// use. Creation compiles the translator module, so it is worth sharing.
func GetTranslator() (*gst.ShaderTranslator, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = gst.NewShaderTranslator(context.Background())
	})
	return shared, sharedErr
}

// Translator implements shader.Translator, emitting GLSL 410 core for
// desktop contexts and ESSL for GLES ones.
type Translator struct {
	t    *gst.ShaderTranslator
	gles bool
}

var _ shader.Translator = (*Translator)(nil)

func New(gles bool) (*Translator, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	return &Translator{t: t, gles: gles}, nil
}

func (t *Translator) Translate(src string, stage shader.Stage) (*shader.Translation, error) {
	outputFormat := gst.OutputFormatGLSL410
	if t.gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := t.t.TranslateShader(src, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		if v.MappedName != "" {
			names[name] = v.MappedName
		}
	}
	return &shader.Translation{Code: out.Code, Names: names}, nil
}
