package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-list/internal/export"
)

// Usage examples on the command line:
// > go run . add "Erika Mustermann" "+49 0815 4711"
// > go run . list --search erika
// > go run . export --dir /tmp
// > go run . bench
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the command tree of the client.
func newRootCommand() *cobra.Command {
	var serviceURL string
	client := func() *apiClient { return newAPIClient(serviceURL) }

	root := &cobra.Command{
		Use:          "client",
		Short:        "Command line client of the contacts service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serviceURL, "url", "http://localhost:8080", "base URL of the contacts service")

	root.AddCommand(
		newListCommand(client),
		newAddCommand(client),
		newDeleteCommand(client),
		newExportCommand(client),
		newExtractCommand(client),
		newBenchCommand(client),
	)
	return root
}

func newListCommand(client func() *apiClient) *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := client().list(term)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tCREATED")
			for _, c := range contacts {
				created := time.UnixMilli(c.CreatedAt).UTC().Format(time.DateTime)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Id, c.Name, c.Phone, created)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&term, "search", "", "only list contacts whose name or phone contains this term")
	return cmd
}

func newAddCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME PHONE",
		Short: "Add a contact to the front of the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, _, err := client().add(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), contact.Id)
			return nil
		},
	}
}

func newDeleteCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client().delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "contact deleted")
			return nil
		},
	}
}

func newExportCommand(client func() *apiClient) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the contact list as SQL script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			script, err := client().export()
			if err != nil {
				return err
			}
			path := filepath.Join(dir, export.Filename)
			if err := os.WriteFile(path, script, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the SQL script to")
	return cmd
}

func newExtractCommand(client func() *apiClient) *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "extract TEXT",
		Short: "Find a name and a phone number in free text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client()
			extracted, err := c.extract(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", extracted.Name, extracted.Phone)
			if !add {
				return nil
			}
			contact, _, err := c.add(extracted.Name, extracted.Phone)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), contact.Id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "add the extracted contact to the list")
	return cmd
}

func newBenchCommand(client func() *apiClient) *cobra.Command {
	var sizes []int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the average duration of POST and DELETE requests in microseconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bench(cmd.OutOrStdout(), client(), sizes)
		},
	}
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{1000, 5000, 10000}, "numbers of contacts to create and delete")
	return cmd
}

// bench creates and deletes batches of contacts and prints the average duration per request.
func bench(out io.Writer, c *apiClient, sizes []int) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Elements      POST    DELETE ")
	fmt.Fprintln(out, "-------------------------------")
	for _, loops := range sizes {
		if loops < 1 {
			continue
		}
		fmt.Fprintf(out, "%10d", loops)

		ids := make([]string, 0, loops)
		var duration int64
		for i := 0; i < loops; i++ {
			contact, d, err := c.add("Marcus Antonius", "+39 999 777 555")
			if err != nil {
				return err
			}
			ids = append(ids, contact.Id)
			duration += d
		}
		fmt.Fprintf(out, "%10d", duration/int64(loops*1000))

		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		duration = 0
		for _, id := range ids {
			d, err := c.delete(id)
			if err != nil {
				return err
			}
			duration += d
		}
		fmt.Fprintf(out, "%10d", duration/int64(loops*1000))
		fmt.Fprintln(out)
	}
	return nil
}
