package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hubenschmidt/go-chromastore"
	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/config"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configFile string
	namespace  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "chromastore",
		Short:         "Embed text and search it by similarity",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./chromastore.yaml)")
	root.PersistentFlags().StringVarP(&opts.namespace, "namespace", "n", "", "namespace override")

	root.AddCommand(
		newServeCmd(opts),
		newAddCmd(opts),
		newQueryCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) open() (*chromastore.Store, chromastore.Client, *config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	store, client, err := chromastore.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, client, cfg, nil
}

func (o *rootOptions) callOptions(cmd *cobra.Command) []chroma.Option {
	if cmd.Flags().Changed("namespace") {
		return []chroma.Option{chroma.WithNamespace(o.namespace)}
	}
	return nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, client, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer client.Close()

			srv, err := chromastore.NewServer(chromastore.ServerConfig{Store: store})
			if err != nil {
				return err
			}

			httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[server] Starting chromastore on http://localhost%s", cfg.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Printf("[server] Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var ids []string
	var metadataJSON string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Embed and store texts, printing their ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, client, _, err := opts.open()
			if err != nil {
				return err
			}
			defer client.Close()

			callOpts := opts.callOptions(cmd)
			if len(ids) > 0 {
				callOpts = append(callOpts, chroma.WithIDs(ids...))
			}
			if metadataJSON != "" {
				var metadatas []map[string]any
				if err := json.Unmarshal([]byte(metadataJSON), &metadatas); err != nil {
					return fmt.Errorf("parse --metadata: %w", err)
				}
				callOpts = append(callOpts, chroma.WithMetadatas(metadatas))
			}
			callOpts = append(callOpts, chroma.WithBatchSize(batchSize))

			added, err := store.AddTexts(cmd.Context(), args, callOpts...)
			if err != nil {
				return err
			}
			for _, id := range added {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "explicit id per text (repeatable)")
	cmd.Flags().StringVar(&metadataJSON, "metadata", "", "JSON array of metadata objects, one per text")
	cmd.Flags().IntVar(&batchSize, "batch-size", chroma.DefaultBatchSize, "texts per embedding request")
	return cmd
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Print the stored texts most similar to QUERY as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, client, _, err := opts.open()
			if err != nil {
				return err
			}
			defer client.Close()

			docs, err := store.GetMatchingText(cmd.Context(), args[0], topK, opts.callOptions(cmd)...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", chroma.DefaultTopK, "number of results")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
