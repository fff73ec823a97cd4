package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/normanking/oficina/internal/service"
	"github.com/normanking/oficina/internal/session"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configPath())
		},
	})

	return cmd
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the signed-in session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login <token>",
		Short: "Store an access token in the OS keychain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := newSession()
			if err := mgr.Login(strings.TrimSpace(args[0])); err != nil {
				return err
			}
			user, _ := mgr.User()
			fmt.Printf("Signed in as %s\n", user.DisplayName())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newSession().Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := newSession()
			if err := mgr.Restore(); err != nil {
				return err
			}
			user, ok := mgr.User()
			if !ok {
				return session.ErrNoSession
			}

			data := [][]string{
				{"Name", user.DisplayName()},
				{"Role", user.Role},
				{"Email", user.Email},
			}
			if user.ExpiresAt != nil {
				data = append(data, []string{"Expires", user.ExpiresAt.Time.Format(time.RFC3339)})
			}
			table := newTable()
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Load records from a JSON fixture",
		Long: `Load clients (with their vehicles), mechanics and checklist parts
from a JSON file. The whole file is imported in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.ImportFile(args[0])
			if err != nil {
				return err
			}
			log.Info("imported %s", args[0])
			fmt.Printf("Imported %d clientes, %d veículos, %d mecânicos, %d partes\n",
				res.Clientes, res.Veiculos, res.Mecanicos, res.Partes)
			return nil
		},
	}
}

func findCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search clients and mechanics by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := service.NewCatalog(store).Find(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return errors.New("no matches")
			}

			var data [][]string
			for i, r := range results {
				if limit > 0 && i >= limit {
					break
				}
				data = append(data, []string{r.Label(), string(r.Kind), service.FormatSituacao(r.Situacao), strconv.Itoa(r.Score)})
			}

			table := newTable()
			table.SetHeader([]string{"REGISTRO", "TIPO", "SITUAÇÃO", "SCORE"})
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results")
	return cmd
}

// newTable returns a borderless left-aligned table on stdout.
func newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}
