package main

import (
	"fmt"
	"io"
	"sync"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/pavanmanishd/multialloc"
)

type exerciseOptions struct {
	backend string
	count   int
	size    int
	align   int
	workers int
	keep    bool
}

func init() {
	rootCmd.AddCommand(newExerciseCmd())
}

func newExerciseCmd() *cobra.Command {
	var opts exerciseOptions
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Allocate and free blocks through a selected backend",
		Long: `The exercise command installs the configured allocator, then has each
worker goroutine select a backend for the duration of its workload,
allocate --count blocks, and free them again. Per-backend statistics
are printed afterwards.

Example:
  multialloc exercise --config allocators.toml --backend scratch --count 1000 --size 256 --align 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			table, err := conf.Build(nil)
			if err != nil {
				return err
			}
			multialloc.Install(multialloc.New(table))
			return runExercise(cmd.OutOrStdout(), multialloc.Installed(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.backend, "backend", "b", "", "Backend to select (default: tag 0)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1000, "Blocks to allocate per worker")
	cmd.Flags().IntVar(&opts.size, "size", 64, "Block size in bytes")
	cmd.Flags().IntVar(&opts.align, "align", 8, "Block alignment (power of two)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "Concurrent worker goroutines")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Do not free the blocks")
	return cmd
}

func runExercise(w io.Writer, m *multialloc.Multi, opts exerciseOptions) error {
	layout, err := multialloc.NewLayout(opts.size, opts.align)
	if err != nil {
		return err
	}
	tag := multialloc.Tag(0)
	if opts.backend != "" {
		t, ok := m.Table().Lookup(opts.backend)
		if !ok {
			return fmt.Errorf("no backend named %q", opts.backend)
		}
		tag = t
	}
	workers := max(opts.workers, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			local := m.Local()
			err := local.WithErr(tag, func() error {
				return workload(local, layout, opts.count, opts.keep)
			})
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("worker %d: %w", id, err))
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	metrics := m.Metrics()
	if jsonOut {
		if err := printJSON(w, metrics); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "%-16s %10s %10s %8s %12s %9s\n", "BACKEND", "ALLOCS", "FREES", "FAILED", "IN USE", "OVERHEAD")
		for _, bm := range metrics {
			fmt.Fprintf(w, "%-16s %10d %10d %8d %12d %8.2f%%\n",
				bm.Name, bm.Allocations, bm.Deallocations, bm.Failures, bm.BytesInUse, bm.Overhead()*100)
		}
	}
	return errs.ErrorOrNil()
}

// workload allocates count blocks under the caller's selection, writes to
// each one and frees them unless keep is set.
func workload(a multialloc.Allocator, l multialloc.Layout, count int, keep bool) error {
	blocks := make([]unsafe.Pointer, 0, count)
	for i := 0; i < count; i++ {
		p, err := a.Allocate(l)
		if err != nil {
			for _, b := range blocks {
				a.Deallocate(b, l)
			}
			return err
		}
		if l.Size > 0 {
			clear(unsafe.Slice((*byte)(p), l.Size))
		}
		blocks = append(blocks, p)
	}
	if keep {
		return nil
	}
	for _, b := range blocks {
		a.Deallocate(b, l)
	}
	return nil
}
