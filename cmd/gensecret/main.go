package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
)

// gensecret generates the HMAC key used to sign identity tokens (HS256)
//
// Usage:
//
//	go run ./cmd/gensecret [-bytes 32] [--save]
//
// The output belongs in TOKEN_SECRET. Rotating it invalidates every issued token.
func main() {
	size := flag.Int("bytes", 32, "key size in bytes (at least 32)")
	save := flag.Bool("save", false, "also write the secret to token-secret.txt")
	flag.Parse()

	if *size < 32 {
		log.Fatalf("Key size %d is too small for HS256, use at least 32 bytes", *size)
	}

	key := make([]byte, *size)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to read random bytes: %v", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(key)

	fmt.Println("✅ Token signing secret generated")
	fmt.Println("\n📝 Add this to your .env.dev file:")
	fmt.Println("\nTOKEN_SECRET=" + secret)
	fmt.Println("\n⚠️  Keep it out of version control and use a different secret per environment")

	if *save {
		filename := "token-secret.txt"
		if err := os.WriteFile(filename, []byte(secret+"\n"), 0600); err != nil {
			log.Fatalf("Failed to write secret file: %v", err)
		}
		fmt.Printf("\n💾 Secret saved to %s (remember to add to .gitignore!)\n", filename)
	}
}
