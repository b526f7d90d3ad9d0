package cli

import (
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alfakih7/nova-cli-agent/internal/keystore"
	"github.com/alfakih7/nova-cli-agent/internal/runner"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Providers: %d, routes: %d\n", len(cfg.Providers), len(cfg.Routes))

			routes := make([]string, 0, len(cfg.Routes))
			for name := range cfg.Routes {
				routes = append(routes, name)
			}
			sort.Strings(routes)
			for _, name := range routes {
				r := cfg.Routes[name]
				marker := ""
				if r.Default {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  route %s: %s via %s%s\n", name, r.Model, r.Provider, marker)
			}

			fmt.Fprintf(out, "API key: %s\n", credentialStatus())
			if cfg.Search.APIKey != "" || os.Getenv("TAVILY_API_KEY") != "" {
				fmt.Fprintln(out, "Web search: configured")
			} else {
				fmt.Fprintln(out, "Web search: no API key (search disabled)")
			}
			fmt.Fprintf(out, "Command execution: %v, exec timeout: %ds, run timeout: %ds\n",
				cfg.Tools.AllowExec, cfg.Tools.ExecTimeoutSeconds, cfg.Tools.RunTimeoutSeconds)

			fmt.Fprintln(out, "Interpreters:")
			for _, ext := range []string{".go", ".py", ".js", ".rb", ".sh"} {
				name, ok := runner.Command(ext)
				if !ok {
					continue
				}
				if _, err := exec.LookPath(name); err != nil {
					fmt.Fprintf(out, "  %s: %s not found\n", ext, name)
					continue
				}
				fmt.Fprintf(out, "  %s: %s OK\n", ext, name)
			}

			return nil
		},
	}
}

// credentialStatus reports where a gateway credential would come from
// without printing it.
func credentialStatus() string {
	for _, env := range []string{"NOVA_API_KEY", "SAMBANOVA_API_KEY"} {
		if os.Getenv(env) != "" {
			return fmt.Sprintf("found in %s", env)
		}
	}
	if store, err := keystore.New(); err == nil && store.Exists() {
		return fmt.Sprintf("saved at %s", store.Path())
	}
	return "not found (the chat command will prompt for one)"
}
