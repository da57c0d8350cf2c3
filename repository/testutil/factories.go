package testutil

import "fmt"

// TestUUID returns a deterministic undashed Minecraft UUID for n
func TestUUID(n int) string {
	return fmt.Sprintf("%032x", n)
}
