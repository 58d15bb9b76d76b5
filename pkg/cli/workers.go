package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/syncfl/control-plane/pkg/rpc"
)

// HandleWorkersCommand lists the coordinator's current registry.
// Recognized flags: --addr (default localhost:50052).
func HandleWorkersCommand(args []string) error {
	addr := "localhost:50052"

	for i, arg := range args {
		switch arg {
		case "--addr", "-a":
			if i+1 < len(args) {
				addr = args[i+1]
			}
		case "--help", "-h":
			printWorkersUsage()
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial coordinator %s: %w", addr, err)
	}
	defer conn.Close()

	client := rpc.NewCoordinatorClient(conn)
	resp, err := client.ListWorkers(ctx, &rpc.ListWorkersRequest{})
	if err != nil {
		return fmt.Errorf("list workers: %w", err)
	}

	fmt.Printf("🤝 coordinator %s: %d worker(s)\n", addr, resp.TotalWorkers)
	for _, w := range resp.Workers {
		fmt.Printf("   [%d] %s:%d (%s) status=%d\n", w.WorkerID, w.Address, w.Port, w.Hostname, w.Status)
	}
	return nil
}

func printWorkersUsage() {
	fmt.Println("fx workers - list the coordinator's registered workers")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fx workers [--addr host:port]")
}
