package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"modulos/pricing/internal/services"
)

func newHashPasswordCmd() *cobra.Command {
	var password string
	var cost int

	c := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for AUTH_PASSWORD_HASH",
		Long: `Hashes the calculator password so the server can be configured with
AUTH_PASSWORD_HASH instead of the plaintext AUTH_PASSWORD. Without
--password the first line of stdin is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					password = strings.TrimRight(scanner.Text(), "\r")
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("--cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}

			hash, err := services.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	c.Flags().StringVarP(&password, "password", "p", "", "password to hash (read from stdin when empty)")
	c.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return c
}
