// Command welcometest runs a sample connection card through each configured
// generation provider and the full generator, printing what a visitor would see.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"

	"github.com/wolfman30/connection-card/cmd/mainconfig"
	"github.com/wolfman30/connection-card/internal/app/bootstrap"
	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/internal/welcome"
	"github.com/wolfman30/connection-card/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.GenerationTimeout+10*time.Second)
	defer cancel()

	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println("Welcome Generation Test")
	fmt.Println(rule)

	rec := sampleRecord()
	fmt.Printf("\nVisitor: %s %s (%s, %s), membership interest %s\n",
		rec.FirstName, rec.LastName, rec.CityOrRegion, rec.AgeRange, rec.MembershipInterest)
	fmt.Printf("Prayer request: %q\n", rec.PrayerRequest)

	req := welcome.LLMRequest{
		Model:  cfg.GeminiModelID,
		Prompt: welcome.BuildPrompt(rec),
		Schema: welcome.ContentSchema(),
	}

	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		fmt.Println("\n[1] Testing Gemini directly...")
		gemini, err := welcome.NewGeminiLLMClient(ctx, key, cfg.GeminiModelID)
		if err != nil {
			fmt.Printf("    Failed to create Gemini client: %v\n", err)
		} else {
			defer gemini.Close()
			report(ctx, gemini, req)
		}
	} else {
		fmt.Println("\n[1] Skipping Gemini test (GEMINI_API_KEY not set)")
	}

	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			fmt.Printf("\n[2] Failed to load AWS config: %v\n", err)
		} else {
			awsCfg = &loaded
		}
	}
	if awsCfg != nil && cfg.BedrockModelID != "" {
		fmt.Printf("\n[2] Testing Bedrock (%s) directly...\n", cfg.BedrockModelID)
		client, _, err := bootstrap.BuildLLMClient(ctx, &appconfig.Config{BedrockModelID: cfg.BedrockModelID}, awsCfg, logger)
		if err != nil || client == nil {
			fmt.Printf("    Failed to create Bedrock client: %v\n", err)
		} else {
			report(ctx, client, req)
		}
	} else {
		fmt.Println("\n[2] Skipping Bedrock test (BEDROCK_MODEL_ID not set)")
	}

	fmt.Println("\n[3] Running the full generator (with fallback)...")
	client, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		fmt.Printf("    Failed to build LLM client: %v\n", err)
		os.Exit(1)
	}
	defer closeLLM()

	gen := bootstrap.BuildGenerator(cfg, client, nil, logger)
	start := time.Now()
	content := gen.Generate(ctx, rec)
	elapsed := time.Since(start).Round(time.Millisecond)

	source := "generated"
	if content == welcome.Fallback(rec.FirstName) {
		source = "fallback"
	}
	fmt.Printf("    Result (%s, %v):\n", source, elapsed)
	fmt.Printf("    Welcome: %s\n", content.WelcomeMessage)
	fmt.Printf("    Prayer:  %s\n", content.Prayer)

	fmt.Println("\n" + rule)
	fmt.Println("A fallback result means no provider answered with a valid welcome;")
	fmt.Println("check the warnings above for the failure reason.")
}

func report(ctx context.Context, client welcome.LLMClient, req welcome.LLMRequest) {
	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		fmt.Printf("    Error after %v: %v\n", elapsed, err)
		return
	}
	fmt.Printf("    Response from %s (%v):\n", resp.Provider, elapsed)
	fmt.Printf("    %s\n", resp.Text)
	fmt.Printf("    Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
}

func sampleRecord() visitor.Record {
	rec := visitor.DefaultRecord()
	rec.FirstName = "Jane"
	rec.LastName = "Doe"
	rec.Email = "jane@x.com"
	rec.CityOrRegion = "Springfield, IL"
	rec.AgeRange = visitor.AgeRange30To49
	rec.PrayerRequest = "healing for my mother"
	rec.MembershipInterest = visitor.MembershipYes
	return rec
}
