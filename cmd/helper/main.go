package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"brandvault/internal/config"
	base64_ "brandvault/internal/utils/base64"
	"brandvault/internal/utils/crypto"
	"brandvault/internal/utils/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Small operator CLI: hash passwords for manual account fixes and sign or
// verify share tokens outside the API.
func main() {
	var log = logger.New("helper")
	log.Info("🔑 Starting BrandVault helper CLI")

	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		_ = log.Error("❌ Failed to load configuration", err)
		return
	}
	if err := crypto.InitializeKeys(cfg.Crypto.PrivateKey); err != nil {
		log.Warn("⚠️ Share-token keys unavailable, only hashing will work: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'h' to hash a password, 's' to sign a share token, 'v' to verify one, 'k' to encode a key file, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "q":
			log.Info("👋 Exiting helper CLI")
			return

		case "h":
			fmt.Print("Password: ")
			input, _ := reader.ReadString('\n')
			hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input)), bcrypt.DefaultCost)
			if err != nil {
				_ = log.Error("❌ Hashing failed", err)
				continue
			}
			log.Success("✅ Hash: %s", string(hashed))

		case "s":
			fmt.Print("Link ID: ")
			linkID, _ := reader.ReadString('\n')
			fmt.Print("Asset ID: ")
			assetID, _ := reader.ReadString('\n')
			fmt.Print("Expires in hours (empty for never): ")
			hours, _ := reader.ReadString('\n')

			var expiresAt *time.Time
			if h := strings.TrimSpace(hours); h != "" {
				var n int
				if _, err := fmt.Sscanf(h, "%d", &n); err == nil && n > 0 {
					t := time.Now().Add(time.Duration(n) * time.Hour)
					expiresAt = &t
				}
			}

			token, err := crypto.SignShareToken(strings.TrimSpace(linkID), strings.TrimSpace(assetID), expiresAt)
			if err != nil {
				_ = log.Error("❌ Signing failed", err)
				continue
			}
			log.Success("✅ Token: %s", token)

		case "v":
			fmt.Print("Token: ")
			input, _ := reader.ReadString('\n')
			claims, err := crypto.VerifyShareToken(strings.TrimSpace(input))
			if err != nil {
				_ = log.Error("❌ Verification failed", err)
				continue
			}
			log.Success("✅ Valid: link=%s asset=%s", claims.LinkID, claims.AssetID)

		case "k":
			fmt.Print("Path to PEM private key: ")
			path, _ := reader.ReadString('\n')
			pem, err := os.ReadFile(strings.TrimSpace(path))
			if err != nil {
				_ = log.Error("❌ Failed to read key file", err)
				continue
			}
			log.Success("✅ SHARE_LINK_PRIVATE_KEY=%s", base64_.EncodeToBase64(string(pem)))

		default:
			log.Warn("⚠️ Invalid choice. Please enter 'h', 's', 'v', 'k', or 'q'.")
		}
	}
}
