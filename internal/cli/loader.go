package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/fieldgate/internal/engine"
)

// Error codes for CLI error responses.
const (
	ErrCodeNotFound   = "E001" // file not found
	ErrCodeBadFormat  = "E002" // unsupported extension or undecodable document
	ErrCodeRejected   = "E003" // request rejected before the pipeline ran
	ErrCodeValidation = "E004" // document failed validation
)

// LoadRequest reads a validation request document from a .json or .cue
// file. The document must carry the request shape: schema, rules, data.
//
// CUE documents are compiled and must be concrete; this gives schema
// authors expressions and references for free without touching the
// request format.
func LoadRequest(path string) (*engine.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("file not found: %s", path), err)
		}
		return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("read %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeRequest(data, path)
	case ".cue":
		jsonData, err := cueToJSON(data, path)
		if err != nil {
			return nil, err
		}
		return decodeRequest(jsonData, path)
	default:
		return nil, WrapExitError(ExitCommandError, ErrCodeBadFormat,
			fmt.Sprintf("unsupported file type %q: expected .json or .cue", filepath.Ext(path)), nil)
	}
}

func decodeRequest(data []byte, path string) (*engine.Request, error) {
	var req engine.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeBadFormat, fmt.Sprintf("decode %s", path), err)
	}
	return &req, nil
}

// cueToJSON compiles a CUE document and exports it as concrete JSON.
func cueToJSON(data []byte, path string) ([]byte, error) {
	ctx := cuecontext.New()

	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeBadFormat, fmt.Sprintf("compile %s", path), err)
	}

	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeBadFormat, fmt.Sprintf("%s is not concrete", path), err)
	}

	jsonData, err := val.MarshalJSON()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeBadFormat, fmt.Sprintf("export %s", path), err)
	}
	return jsonData, nil
}
