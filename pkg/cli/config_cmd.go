package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/koenote/koenote-proxy/pkg/cli/internal/output"
	"github.com/koenote/koenote-proxy/pkg/config"
)

const maskedSecret = "********"

func newConfigCommand() *cobra.Command {
	var f configFlags
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Example: `  koenote-proxy config
  koenote-proxy config -c koenote.toml --mode development
  koenote-proxy config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}

			shown := *cfg
			if !showSecrets && shown.APIKey != "" {
				shown.APIKey = maskedSecret
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return output.JSON(out, configView{Config: &shown, APIKey: shown.APIKey, Sources: cfg.Sources})
			}

			data, err := annotatedYAML(&shown)
			if err != nil {
				return err
			}
			if path := cfg.Sources["configFile"]; path != "" {
				_, _ = fmt.Fprintf(out, "# Config file: %s\n", path)
			}
			_, _ = out.Write(data)

			for _, w := range cfg.Warnings() {
				output.Warn(cmd.ErrOrStderr(), "%s", w)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the API key instead of masking it")
	return cmd
}

// configView is the JSON form; Config hides the API key by default.
type configView struct {
	*config.Config
	APIKey  string            `json:"apiKey,omitempty"`
	Sources map[string]string `json:"sources"`
}

// annotatedYAML renders cfg as YAML with each key's source as a line comment.
func annotatedYAML(cfg *config.Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if src := cfg.Sources[doc.Content[i].Value]; src != "" {
				doc.Content[i+1].LineComment = "# " + src
			}
		}
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
