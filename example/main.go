package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beanbocchi/portage/pkg/sdk"
)

const baseURL = "http://localhost:8080/api/v1"

func main() {
	sourceURL := "https://files.example.com/models/weights.bin"
	if len(os.Args) > 1 {
		sourceURL = os.Args[1]
	}

	client := sdk.NewClient(baseURL)
	ctx := context.Background()

	fmt.Println("=== Relay Example ===")
	res, err := client.Relay(ctx, sdk.RelayRequest{
		OwnerID:   "example-user",
		SourceURL: sourceURL,
		Namespace: "models",
	})
	if err != nil {
		fmt.Printf("Relay error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Accepted transfer %s\n", res.TransferID)

	for {
		detail, err := client.GetTransfer(ctx, res.TransferID)
		if err != nil {
			fmt.Printf("GetTransfer error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("status: %s\n", detail.Status)
		if detail.Status == "done" {
			fmt.Printf("Relayed %s as %d part(s)\n", detail.ObjectName, len(detail.Parts))
			for _, part := range detail.Parts {
				fmt.Printf("  #%d %s (%d bytes)\n", part.Ordinal, part.Name, part.Size)
			}
			return
		}
		if detail.Status == "failed" {
			if detail.ErrorMessage != nil {
				fmt.Printf("Transfer failed: %s\n", *detail.ErrorMessage)
			} else {
				fmt.Println("Transfer failed")
			}
			os.Exit(1)
		}

		time.Sleep(2 * time.Second)
	}
}
