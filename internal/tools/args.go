package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
)

// Response formats accepted by every tool.
var formats = []string{report.FormatMarkdown, report.FormatJSON}

// ErrorFunc builds a ValidationError for one request domain, such as
// quality.NewCompetitiveError.
type ErrorFunc func(vt quality.ValidationType, field, msg string, suggestions ...string) *quality.ValidationError

// decodeArgs decodes raw into dst. Syntax and type mismatches become
// ValidationErrors built by mkErr.
func decodeArgs(raw json.RawMessage, dst any, mkErr ErrorFunc) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "arguments"
			}
			return mkErr(quality.TypeType, field,
				fmt.Sprintf("%s must be %s, got %s", field, typeErr.Type.String(), typeErr.Value),
				"Check the argument types against the tool schema")
		}
		return mkErr(quality.TypeType, "arguments",
			"Arguments must be a JSON object: "+err.Error(),
			"Send the tool arguments as a JSON object")
	}
	return nil
}

// resolveFormat defaults an empty format to markdown and rejects others.
func resolveFormat(format string, mkErr ErrorFunc) (string, error) {
	if format == "" {
		return report.FormatMarkdown, nil
	}
	for _, f := range formats {
		if f == format {
			return f, nil
		}
	}
	return "", mkErr(quality.TypeEnum, "format",
		fmt.Sprintf("Unsupported format %q", format),
		"Use format \"markdown\" or \"json\"")
}

// CheckSources rejects source references that break the citation
// invariants: a known type, reliability and relevance in [0,1], and a
// publish date no later than the access date. field names the argument
// holding the sources, e.g. "source_attribution".
func CheckSources(mkErr ErrorFunc, field string, sources []model.SourceReference) error {
	for i, s := range sources {
		at := fmt.Sprintf("%s[%d]", field, i)
		if !s.Type.Valid() {
			return mkErr(quality.TypeEnum, at+".type",
				fmt.Sprintf("Unsupported source type %q", s.Type),
				"Valid values: "+sourceTypeNames())
		}
		var re *model.RangeError
		if err := s.Validate(); errors.As(err, &re) {
			msg := fmt.Sprintf("%s.%s must be between 0 and 1, got %g", at, re.Field, re.Value)
			hint := "Express reliability and relevance as fractions between 0 and 1"
			if re.Field == "publish_date" {
				msg = fmt.Sprintf("%s.publish_date is after its access_date", at)
				hint = "Check the publish and access dates; a source cannot be read before it is published"
			}
			return mkErr(quality.TypeType, at+"."+re.Field, msg, hint)
		}
	}
	return nil
}

func sourceTypeNames() string {
	types := model.AllSourceTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
