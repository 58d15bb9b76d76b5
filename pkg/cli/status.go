// Package cli implements the fx operator commands: small, read-only
// queries against a running aggregator or coordinator, in the same
// flag-scanning style the rest of this codebase's command handlers use.
package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/syncfl/control-plane/pkg/rpc"
)

// HandleStatusCommand queries an aggregator's barrier progress for one
// iteration. Recognized flags: --addr (default localhost:50051),
// --iteration (default 0).
func HandleStatusCommand(args []string) error {
	addr := "localhost:50051"
	iteration := 0

	for i, arg := range args {
		switch arg {
		case "--addr", "-a":
			if i+1 < len(args) {
				addr = args[i+1]
			}
		case "--iteration", "-i":
			if i+1 < len(args) {
				fmt.Sscanf(args[i+1], "%d", &iteration)
			}
		case "--help", "-h":
			printStatusUsage()
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial aggregator %s: %w", addr, err)
	}
	defer conn.Close()

	client := rpc.NewAggregatorClient(conn)
	resp, err := client.CheckSyncStatus(ctx, &rpc.CheckSyncStatusRequest{Iteration: int32(iteration)})
	if err != nil {
		return fmt.Errorf("check sync status: %w", err)
	}

	fmt.Printf("📊 aggregator %s, iteration %d\n", addr, iteration)
	fmt.Printf("   workers received: %d/%d\n", resp.WorkersReceived, resp.TotalWorkers)
	fmt.Printf("   aggregated:       %t\n", resp.Ready)
	return nil
}

func printStatusUsage() {
	fmt.Println("fx status - query an aggregator's barrier progress")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fx status [--addr host:port] [--iteration N]")
}
