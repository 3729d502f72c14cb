package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/security"
)

func printUsage() {
	fmt.Println("Available commands:")
	fmt.Println("  help                 Show this help message")
	fmt.Println("  shutdown             Exit the application")
	fmt.Println("  protect SECRET       Encrypt a bridge API secret for BRIDGE_API_SECRET_ENC")
	fmt.Println("  reveal CIPHERTEXT    Decrypt a protected secret (verification only)")
	fmt.Println()
}

func main() {
	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 0, 1024), 1024*1024)

	fmt.Println("Key console ready. Type 'help' for a list of commands.")

	for {
		fmt.Print("keys> ")

		if !reader.Scan() {
			continue
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {

		case "shutdown":
			fmt.Println("Exiting CLI...")
			return

		case "help":
			printUsage()

		case "protect":
			if len(parts) < 2 {
				printUsage()
				continue
			}

			encrypted, err := security.EncryptString(parts[1])
			if err != nil {
				logger.WithError(err).Error("Failed to encrypt secret")
				continue
			}

			fmt.Println("BRIDGE_API_SECRET_ENC=" + encrypted)

		case "reveal":
			if len(parts) < 2 {
				printUsage()
				continue
			}

			decrypted, err := security.DecryptString(parts[1])
			if err != nil {
				logger.WithError(err).Error("Failed to decrypt secret")
				continue
			}

			fmt.Println(decrypted)

		default:
			fmt.Println("Unknown command:", cmd)
			printUsage()
		}
	}
}
