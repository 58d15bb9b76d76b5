package main

import (
	"fmt"
	"log"
	"os"

	"github.com/syncfl/control-plane/pkg/cli"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "status":
		if err := cli.HandleStatusCommand(args); err != nil {
			log.Fatalf("status command failed: %v", err)
		}
	case "workers":
		if err := cli.HandleWorkersCommand(args); err != nil {
			log.Fatalf("workers command failed: %v", err)
		}
	case "version":
		fmt.Println("fx v1.0.0")
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("fx - operator CLI for the training control plane")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fx <command> [arguments]")
	fmt.Println()
	fmt.Println("Available Commands:")
	fmt.Println("  status   Query an aggregator's barrier progress")
	fmt.Println("  workers  List a coordinator's registered workers")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  fx status --addr localhost:50051 --iteration 3")
	fmt.Println("  fx workers --addr localhost:50052")
}
