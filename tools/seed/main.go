// Command seed populates a running userdir backend with the sample account
// corpus: standard users, boundary ages and a near-max-length handle.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type seedUser struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Age      int     `json:"age"`
	Phone    *string `json:"phone,omitempty"`
}

func phone(s string) *string { return &s }

var sampleUsers = []seedUser{
	// Standard users
	{Username: "john_doe", Email: "john@example.com", Password: "password123", Age: 30, Phone: phone("+15551234567")},
	{Username: "jane_smith", Email: "jane@example.com", Password: "securepass456", Age: 25, Phone: phone("+14155551234")},
	{Username: "bob_wilson", Email: "bob@example.com", Password: "mypass789", Age: 35},
	{Username: "alice_johnson", Email: "alice@example.com", Password: "alicepass", Age: 28, Phone: phone("+12125551234")},
	{Username: "charlie_brown", Email: "charlie@example.com", Password: "charlie123", Age: 22},
	{Username: "test_user", Email: "test.user@example.com", Password: "Test@123", Age: 40},
	{Username: "admin_user", Email: "admin@company.com", Password: "Admin@2024", Age: 45, Phone: phone("+19175551234")},
	// Boundary ages
	{Username: "max_age", Email: "maxage@example.com", Password: "maxage123", Age: 150},
	{Username: "min_age", Email: "minage@example.com", Password: "minage123", Age: 18},
	// Near the handle length limit
	{Username: "very_long_username_that_is_close_to_fifty_chars", Email: "longuser@example.com", Password: "longpass123", Age: 30},
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "base URL of the running backend")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(*baseURL + "/")
	if err != nil || resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "error: backend is not reachable; start the server first")
		os.Exit(1)
	}
	resp.Body.Close()

	fmt.Println("Seeding directory with sample users...")

	success, failed := 0, 0
	for _, user := range sampleUsers {
		body, err := json.Marshal(user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal %s: %v\n", user.Username, err)
			failed++
			continue
		}

		resp, err := client.Post(*baseURL+"/users", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", user.Username, err)
			failed++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			fmt.Printf("created user: %s\n", user.Username)
			success++
		} else {
			fmt.Fprintf(os.Stderr, "create %s: status %d\n", user.Username, resp.StatusCode)
			failed++
		}
	}

	fmt.Printf("\nSeeding completed: %d created, %d failed\n", success, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
