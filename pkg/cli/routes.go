package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koenote/koenote-proxy/pkg/cli/internal/output"
	"github.com/koenote/koenote-proxy/pkg/koenote"
)

type routeInfo struct {
	Name         string `json:"name"`
	Method       string `json:"method"`
	Path         string `json:"path"`
	APIKey       bool   `json:"apiKey"`
	ForwardBody  bool   `json:"forwardBody"`
	ErrorMessage string `json:"errorMessage"`
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the proxied endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes := koenote.Routes(nil)
			infos := make([]routeInfo, 0, len(routes))
			for _, rt := range routes {
				infos = append(infos, routeInfo{
					Name:         rt.Name,
					Method:       rt.Method,
					Path:         rt.Path,
					APIKey:       rt.APIKey,
					ForwardBody:  rt.ForwardBody,
					ErrorMessage: rt.ErrorMessage,
				})
			}

			if jsonOutput(cmd) {
				return output.JSON(cmd.OutOrStdout(), infos)
			}

			tw := output.Table(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(tw, "NAME\tMETHOD\tPATH\tAPI KEY\tBODY")
			for _, ri := range infos {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ri.Name, ri.Method, ri.Path, yesNo(ri.APIKey), yesNo(ri.ForwardBody))
			}
			return tw.Flush()
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
