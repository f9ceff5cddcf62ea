package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwsimlab/hwblocks/camcache"
	"github.com/hwsimlab/hwblocks/datarecording"
	"github.com/hwsimlab/hwblocks/monitoring"
)

var simulateFlags = struct {
	numSlots    int
	numCommands int
	seed        int64
	dbPath      string
	monitorPort int
}{}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a randomized command stream against the cache controller",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
		runSimulation()
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateFlags.numSlots,
		"slots", 32, "number of cache slots")
	simulateCmd.Flags().IntVar(&simulateFlags.numCommands,
		"commands", 10000, "number of commands to run")
	simulateCmd.Flags().Int64Var(&simulateFlags.seed,
		"seed", 1, "random seed for the command stream")
	simulateCmd.Flags().StringVar(&simulateFlags.dbPath,
		"db", os.Getenv("HWBLOCKS_DB"),
		"SQLite file to record resolved commands into")
	simulateCmd.Flags().IntVar(&simulateFlags.monitorPort,
		"monitor-port", 0, "serve controller state on this port while running")

	rootCmd.AddCommand(simulateCmd)
}

type simulationStats struct {
	stores    int
	grants    int
	hits      int
	misses    int
	fullEvts  int
	reclaims  int
	keyOps    int
	eraseOps  int
	errOthers int
}

func runSimulation() {
	cache := camcache.MakeBuilder().
		WithNumSlots(simulateFlags.numSlots).
		WithCleanEvictionSet().
		Build("Cache")

	var writer *datarecording.SQLiteWriter
	if simulateFlags.dbPath != "" {
		writer = datarecording.NewWriter(simulateFlags.dbPath)
		cache.AcceptHook(camcache.NewCommandRecorder(writer, "cam_trace"))
	}

	if simulateFlags.monitorPort > 0 {
		monitor := monitoring.NewMonitor().
			WithPortNumber(simulateFlags.monitorPort)
		monitor.RegisterController(cache)
		monitor.StartServer()
	}

	stats := runCommandStream(cache)

	if writer != nil {
		writer.Flush()
		writer.Close()
	}

	printSummary(cache, stats)
}

func runCommandStream(cache *camcache.Comp) simulationStats {
	r := rand.New(rand.NewSource(simulateFlags.seed))
	stats := simulationStats{}

	keySpace := uint64(simulateFlags.numSlots * 4)

	for i := 0; i < simulateFlags.numCommands; i++ {
		key := r.Uint64()%keySpace + 1

		switch pick := r.Intn(100); {
		case pick < 50:
			runStore(cache, key, r.Uint64(), &stats)
		case pick < 70:
			runKeyCommand(cache, camcache.CmdDone, key, 0, &stats)
		case pick < 80:
			runKeyCommand(cache, camcache.CmdMarkValid, key, 0, &stats)
		case pick < 90:
			runKeyCommand(cache, camcache.CmdMarkDirty, key, 0, &stats)
		case pick < 95:
			runKeyCommand(cache, camcache.CmdChangeTag, key, r.Uint64(), &stats)
		default:
			runKeyCommand(cache, camcache.CmdErase, key, 0, &stats)
			stats.eraseOps++
		}
	}

	return stats
}

func runStore(
	cache *camcache.Comp,
	key, tag uint64,
	stats *simulationStats,
) {
	stats.stores++

	req := camcache.MakeRequestBuilder().
		WithCmd(camcache.CmdStore).
		WithKey(key).
		WithTag(tag).
		Build()

	rsp := cache.Process(req)

	if errors.Is(rsp.Err, camcache.ErrCacheFull) {
		stats.fullEvts++

		if !reclaimOneSlot(cache, stats) {
			return
		}

		rsp = cache.Process(req)
	}

	switch {
	case rsp.Err != nil:
		stats.errOthers++
	case rsp.Granted:
		stats.grants++
	case rsp.Found:
		stats.hits++
	default:
		stats.misses++
	}
}

func runKeyCommand(
	cache *camcache.Comp,
	cmd camcache.Command,
	key, tag uint64,
	stats *simulationStats,
) {
	stats.keyOps++

	rsp := cache.Process(camcache.MakeRequestBuilder().
		WithCmd(cmd).
		WithKey(key).
		WithTag(tag).
		Build())

	if rsp.Found {
		stats.hits++
	} else {
		stats.misses++
	}
}

// reclaimOneSlot frees the slot the eviction tracker points at so that a
// store that hit a full table can be retried.
func reclaimOneSlot(cache *camcache.Comp, stats *simulationStats) bool {
	index, found := cache.EvictionCandidate()
	if !found {
		return false
	}

	rsp := cache.Process(camcache.MakeRequestBuilder().
		WithCmd(camcache.CmdErase).
		WithEraseIndex(index).
		Build())
	if rsp.Err != nil {
		log.Panicf("reclaim of slot %d failed: %v", index, rsp.Err)
	}

	stats.reclaims++

	return true
}

func printSummary(cache *camcache.Comp, stats simulationStats) {
	fmt.Printf("commands:   %d\n", simulateFlags.numCommands)
	fmt.Printf("stores:     %d (granted %d, hits %d)\n",
		stats.stores, stats.grants, stats.hits)
	fmt.Printf("key ops:    %d\n", stats.keyOps)
	fmt.Printf("misses:     %d\n", stats.misses)
	fmt.Printf("full:       %d (reclaimed %d)\n",
		stats.fullEvts, stats.reclaims)
	fmt.Printf("slots free: %d/%d\n", cache.FreeCount(), cache.NumSlots())

	if stats.errOthers > 0 {
		fmt.Printf("unexpected errors: %d\n", stats.errOthers)
	}
}
