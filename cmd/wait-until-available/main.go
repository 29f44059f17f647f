package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"
)

// Polls the health endpoint of the contacts service until it answers with OK, or until the
// timeout has passed.
//
// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/health -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/health", "the health endpoint of the service")
	interval := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeout := flag.Duration("timeout", 5*time.Minute, "the time after which to give up")
	flag.Parse()

	client := &http.Client{Timeout: *interval}
	deadline := time.Now().Add(*timeout)
	waited := time.Duration(0)
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println("service available after", waited)
				return
			}
			fmt.Println("service answered", res.Status)
		} else {
			fmt.Println(err)
		}
		if time.Now().After(deadline) {
			panic(fmt.Sprintf("service not available after %s", *timeout))
		}
		waited += *interval
		fmt.Printf("Waiting %s\n", waited)
		time.Sleep(*interval)
	}
}
