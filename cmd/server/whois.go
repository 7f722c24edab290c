package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/clients"
)

func whoisCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "whois <user-id>",
		Short: "Look up a user through the identity gRPC service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			defer func() { _ = log.Sync() }()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.GRPCAddr
			}

			c, err := clients.New(cmd.Context(), addr, cfg.ServiceAuthToken, cfg.GRPCDialTimeout)
			if err != nil {
				return fmt.Errorf("grpc dial failed: %w", err)
			}
			defer c.Close()

			user, err := c.Identity.GetUserLite(cmd.Context(), wrapperspb.String(args[0]))
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(user.AsMap(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Identity service address (defaults to GRPC_ADDR)")
	return cmd
}
