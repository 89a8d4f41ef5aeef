package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors        int
	SecurityEvents     int
	LoginSuccess       int
	LoginFailures      int
	SignatureMismatch  int
	PaymentsSettled    int
	SlugConflicts      int
	RateLimited        int
	ContactMailFailure int
	SourceIPs          map[string]int
	ErrorPatterns      map[string]int
}

var (
	ipRegex     = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	numberRegex = regexp.MustCompile(`\d+`)
	quotedRegex = regexp.MustCompile(`"[^"]*"`)
	prefixRegex = regexp.MustCompile(`^(ERROR|INFO): (\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} )?(\S+\.go:\d+: )?`)
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the daily log files")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := &LogStats{
		SourceIPs:     make(map[string]int),
		ErrorPatterns: make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), stats)
	analyzeInfoLogs(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), stats)

	printReport(*day, stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "SECURITY:") {
			stats.SecurityEvents++
			extractSourceIP(line, stats)
		}
		switch {
		case strings.Contains(line, "Login failed"):
			stats.LoginFailures++
		case strings.Contains(line, "Payment signature mismatch"):
			stats.SignatureMismatch++
		case strings.Contains(line, "Slug conflict"):
			stats.SlugConflicts++
		case strings.Contains(line, "Rate limit exceeded"):
			stats.RateLimited++
			extractSourceIP(line, stats)
		case strings.Contains(line, "confirmation mail failed"):
			stats.ContactMailFailure++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "logged in") {
			stats.LoginSuccess++
		}
		if strings.Contains(line, "settled with payment") {
			stats.PaymentsSettled++
		}
	}
}

func extractSourceIP(line string, stats *LogStats) {
	if ip := ipRegex.FindString(line); ip != "" {
		stats.SourceIPs[ip]++
	}
}

// extractErrorPattern reduces a line to its message with ids and quoted values masked
func extractErrorPattern(line string, stats *LogStats) {
	msg := prefixRegex.ReplaceAllString(line, "")
	if i := strings.Index(msg, ": "); i > 0 && !strings.HasPrefix(msg, "SECURITY") {
		msg = msg[:i]
	}
	msg = quotedRegex.ReplaceAllString(msg, `"…"`)
	msg = numberRegex.ReplaceAllString(msg, "N")
	if msg = strings.TrimSpace(msg); msg != "" {
		stats.ErrorPatterns[msg]++
	}
}

func printReport(day string, stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Day:", day)
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication Statistics:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Payments:")
	fmt.Printf("   Orders Settled: %d\n", stats.PaymentsSettled)
	fmt.Printf("   Signature Mismatches: %d\n", stats.SignatureMismatch)

	fmt.Println("\n3. Security Incidents:")
	fmt.Printf("   Security Events: %d\n", stats.SecurityEvents)
	fmt.Printf("   Rate Limited Requests: %d\n", stats.RateLimited)

	fmt.Println("\n4. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)
	fmt.Printf("   Slug Conflicts: %d\n", stats.SlugConflicts)
	fmt.Printf("   Contact Mail Failures: %d\n", stats.ContactMailFailure)

	fmt.Println("\n5. Most Active Sources:")
	printTop(stats.SourceIPs, 5, "events")

	fmt.Println("\n6. Most Common Errors:")
	printTop(stats.ErrorPatterns, 5, "occurrences")
}

func printTop(counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for k, n := range counts {
		entries = append(entries, entry{k, n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count == entries[j].count {
			return entries[i].key < entries[j].key
		}
		return entries[i].count > entries[j].count
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d %s\n", e.key, e.count, unit)
	}
}
