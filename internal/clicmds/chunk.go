package clicmds

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/job"
)

var (
	quiet     bool
	dispatch  bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [path...]",
	Short: "Chunk one or more files/directories and report the resulting chunks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChunk,
}

func init() {
	chunkCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
	chunkCmd.Flags().BoolVar(&dispatch, "dispatch", false, "dispatch resulting chunks to the configured sink clients")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	svc, err := newService(profile)
	if err != nil {
		return err
	}

	var items []chunk.SourceItem
	for _, path := range args {
		found, err := discoverItems(path)
		if err != nil {
			return fmt.Errorf("discover %s: %w", path, err)
		}
		items = append(items, found...)
	}

	if len(items) == 0 {
		fmt.Println("no items found")
		return nil
	}

	var bar *progressBarCloser
	if !quiet {
		bar = newProgressBarCloser(len(items))
	}

	ctx := context.Background()
	chunks, result := svc.processor.ProcessBatch(ctx, items)
	if bar != nil {
		bar.finish()
	}

	fmt.Printf("processed %d/%d items, %d chunk(s), %d failure(s)\n",
		result.Processed, result.Total, len(chunks), result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  item %s: %v\n", e.ItemID, e.Err)
	}

	if dispatch && svc.sinks != nil {
		svc.sinks.Dispatch(ctx, chunks)
	}

	return nil
}

// jobCmd submits items through the full job lifecycle (pending -> running
// -> completed/failed) and polls the store for the final result, exercising
// the same path a long-running service would use.
var jobCmd = &cobra.Command{
	Use:   "job [path...]",
	Short: "Submit a batch as a tracked job and print its final status",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJob,
}

func init() {
	rootCmd.AddCommand(jobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	svc, err := newService(profile)
	if err != nil {
		return err
	}

	var items []chunk.SourceItem
	for _, path := range args {
		found, derr := discoverItems(path)
		if derr != nil {
			return fmt.Errorf("discover %s: %w", path, derr)
		}
		items = append(items, found...)
	}

	store := job.NewStore()
	proc := job.NewProcessor(store, svc.processor, svc.sinks)

	id := store.Create()
	proc.Run(context.Background(), id, items)

	j, ok := store.Get(id)
	if !ok {
		return fmt.Errorf("job %s vanished", id)
	}

	fmt.Printf("job %s: %s\n", j.ID, j.Status)
	if j.Err != nil {
		fmt.Printf("  error: %v\n", j.Err)
		return nil
	}
	fmt.Printf("  %d chunk(s) from %d/%d item(s)\n", len(j.Chunks), j.Result.Processed, j.Result.Total)
	return nil
}
