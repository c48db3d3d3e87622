package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Result is what validate and subscribe report
type Result struct {
	Email      string `json:"email" yaml:"email"`
	Status     string `json:"status" yaml:"status"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	PageViewID string `json:"page_view_id,omitempty" yaml:"page_view_id,omitempty"`
}

func printResult(w io.Writer, v *viper.Viper, r Result) error {
	switch strings.ToLower(v.GetString("output")) {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	default:
		line := fmt.Sprintf("%s\t%s", r.Status, r.Email)
		if r.Message != "" {
			line += "\t" + r.Message
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}
}
