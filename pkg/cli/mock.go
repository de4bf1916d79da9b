package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koenote/koenote-proxy/pkg/cli/internal/output"
	"github.com/koenote/koenote-proxy/pkg/forward"
	"github.com/koenote/koenote-proxy/pkg/koenote"
	"github.com/koenote/koenote-proxy/pkg/mockdata"
)

func newMockCommand() *cobra.Command {
	var (
		id       string
		userID   string
		body     string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "mock <route>",
		Short: "Print the development mock payload of a route",
		Long: `Print the payload the proxy returns in development mode when the backend
call for <route> fails. Run 'koenote-proxy routes' for route names.`,
		Example: `  koenote-proxy mock recordings.list
  koenote-proxy mock recording.url --id 2
  koenote-proxy mock koenoto.save --body '{"recording":{"id":"r1"}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := koenote.Routes(mockdata.New())
			rt, ok := koenote.Find(routes, args[0])
			if !ok {
				names := make([]string, 0, len(routes))
				for _, r := range routes {
					names = append(names, r.Name)
				}
				return fmt.Errorf("unknown route %q (expected one of: %s)", args[0], strings.Join(names, ", "))
			}

			req := forward.MockRequest{
				PathValues: map[string]string{"id": id},
				Query:      url.Values{},
				Body:       []byte(body),
			}
			if userID == "" {
				userID = koenote.DefaultUserID
			}
			req.Query.Set("user_id", userID)

			payload := rt.Mock(req)
			if validate {
				if err := koenote.ValidatePayload(koenote.MockSchemas[rt.Name], payload); err != nil {
					return err
				}
			}
			return output.JSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&id, "id", "1", "Recording id path parameter")
	cmd.Flags().StringVar(&userID, "user-id", "", "user_id query parameter")
	cmd.Flags().StringVar(&body, "body", "", "Request body passed to body-echoing mocks")
	cmd.Flags().BoolVar(&validate, "validate", true, "Check the payload against the OpenAPI schema")
	return cmd
}
