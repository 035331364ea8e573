package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clifton/internal/agent"
	"clifton/internal/trace"
)

func agentCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Chat with the profile agent on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			shutdown, err := trace.Init(ctx, trace.Config{
				Endpoint: app.cfg.Trace.Endpoint,
				URLPath:  app.cfg.Trace.URLPath,
				APIKey:   app.cfg.Trace.APIKey,
			})
			if err != nil {
				return fmt.Errorf("initializing tracing: %w", err)
			}
			defer shutdown(ctx)

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			fmt.Printf("session %s — type a message, ctrl-d to quit\n", sessionID)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}

				err := app.runner.Run(ctx, sessionID, message, func(ev agent.Event) {
					switch ev.Type {
					case agent.EventToken:
						fmt.Print(ev.Data)
					case agent.EventToolCall:
						data := ev.Data.(map[string]string)
						fmt.Printf("[tool: %s]\n", data["name"])
					case agent.EventError:
						fmt.Printf("error: %v\n", ev.Data)
					case agent.EventDone:
						fmt.Println()
					}
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
				}
			}

			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "resume an existing session")
	return cmd
}
