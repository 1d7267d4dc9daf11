package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/admin"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/config"
)

const usage = `Coffee Lab Catalog Admin CLI

Manages catalog collections directly through the configured store, without
going through the HTTP server.

USAGE:
  admin <command> [arguments] [--json]

COMMANDS:
  list <entity>                 List every document of an entity
  get <entity> <id-or-slug>     Show one document
  create <entity> -f <file>     Create a document from a JSON field bag
  delete <entity> <id-or-slug>  Delete a document and its uploaded images
  stats                         Per-collection counts and newest timestamps

ENTITIES:
  beans, machines, syrups, sauces, blogs, orders, coupons

ENVIRONMENT VARIABLES:
  DATABASE_URL        Collection store: memory, file://<dir> or postgres://...
                      (default: JSON files under DATA_DIR)
  DATA_DIR            Collection directory for the fs store (default: ./data)
  UPLOAD_STORAGE_URL  Image store: memory://, file://<dir> or s3://<bucket>

  Configuration can be loaded from a .env file in the current directory.

EXAMPLES:
  # List all beans
  admin list beans

  # Show one product by slug
  admin get beans ethiopia-yirgacheffe

  # Create a blog post from a field bag
  admin create blogs -f post.json

  # Delete an order; its images are removed from the upload store
  admin delete orders K3n9_a2Q

  # Collection statistics as JSON
  admin stats --json
`

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	args := os.Args[1:]
	useJSON := false
	kept := args[:0]
	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
			continue
		}
		kept = append(kept, arg)
	}
	args = kept

	if len(args) < 1 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Print(usage + "\n")
		os.Exit(0)
	}

	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	store, err := cfg.BuildCollectionStore()
	if err != nil {
		log.Fatalf("Failed to open collection store: %v", err)
	}
	svc, err := cfg.BuildServiceWithStore(store)
	if err != nil {
		log.Fatalf("Failed to create catalog service: %v", err)
	}

	ctx := context.Background()

	switch command {
	case "list":
		kind := parseKindArg(args, 1)
		handleList(ctx, svc, kind, useJSON)
	case "get":
		kind := parseKindArg(args, 1)
		handleGet(ctx, svc, kind, identifierArg(args, 2))
	case "create":
		kind := parseKindArg(args, 1)
		handleCreate(ctx, svc, kind, fileArg(args[2:]), useJSON)
	case "delete":
		kind := parseKindArg(args, 1)
		handleDelete(ctx, svc, cfg, kind, identifierArg(args, 2), useJSON)
	case "stats":
		handleStats(ctx, admin.New(store), useJSON)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

func parseKindArg(args []string, pos int) catalog.Kind {
	if len(args) <= pos {
		fmt.Println("Missing entity argument")
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
	kind, err := catalog.ParseKind(args[pos])
	if err != nil {
		log.Fatalf("Unknown entity %q (use one of: beans, machines, syrups, sauces, blogs, orders, coupons)", args[pos])
	}
	return kind
}

func identifierArg(args []string, pos int) string {
	if len(args) <= pos {
		fmt.Println("Missing id-or-slug argument")
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
	return args[pos]
}

func fileArg(args []string) string {
	for i, arg := range args {
		if arg == "-f" && i+1 < len(args) {
			return args[i+1]
		}
	}
	fmt.Println("Missing -f <file> argument")
	fmt.Print(usage + "\n")
	os.Exit(1)
	return ""
}

func handleList(ctx context.Context, svc catalog.Service, kind catalog.Kind, useJSON bool) {
	docs, err := svc.GetAll(ctx, kind)
	if err != nil {
		log.Fatalf("Failed to list %s: %v", kind, err)
	}

	if useJSON {
		printJSON(docs)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSLUG\tNAME\tCREATED\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			doc.ID(),
			truncate(doc.Slug(), 30),
			truncate(stringField(doc, "name", "title"), 30),
			stringField(doc, "createdAt", "date"),
		)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(docs))
}

func handleGet(ctx context.Context, svc catalog.Service, kind catalog.Kind, identifier string) {
	doc, err := svc.GetByIDOrSlug(ctx, kind, identifier)
	if err != nil {
		log.Fatalf("Failed to get %s %q: %v", kind, identifier, err)
	}
	printJSON(doc)
}

func handleCreate(ctx context.Context, svc catalog.Service, kind catalog.Kind, path string, useJSON bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		log.Fatalf("Failed to parse %s: %v", path, err)
	}

	doc, err := svc.Create(ctx, kind, fields)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", kind, err)
	}

	if useJSON {
		printJSON(doc)
		return
	}
	fmt.Printf("Created %s %s (%s)\n", kind, doc.ID(), doc.Slug())
}

func handleDelete(ctx context.Context, svc catalog.Service, cfg *config.ServerConfig, kind catalog.Kind, identifier string, useJSON bool) {
	doc, err := svc.Delete(ctx, kind, identifier)
	if err != nil {
		log.Fatalf("Failed to delete %s %q: %v", kind, identifier, err)
	}

	removed := deleteImages(ctx, cfg, doc)

	if useJSON {
		printJSON(doc)
		return
	}
	fmt.Printf("Deleted %s %s (%s)\n", kind, doc.ID(), doc.Slug())
	if removed > 0 {
		fmt.Printf("Removed %d uploaded image(s)\n", removed)
	}
}

// deleteImages removes the deleted document's uploads from the configured
// image store. The document is already gone, so failures only warn.
func deleteImages(ctx context.Context, cfg *config.ServerConfig, doc catalog.Document) int {
	images, _ := doc["images"].([]interface{})
	if len(images) == 0 {
		return 0
	}

	assetStore, err := cfg.BuildAssetStore()
	if err != nil {
		log.Printf("Warning: uploaded images not reconciled: %v", err)
		return 0
	}

	removed := 0
	for _, img := range images {
		name, ok := img.(string)
		if !ok || name == "" {
			continue
		}
		if err := assetStore.Delete(ctx, name); err != nil {
			if !errors.Is(err, assets.ErrNotFound) {
				log.Printf("Warning: failed to remove image %s: %v", name, err)
			}
			continue
		}
		removed++
	}
	return removed
}

func handleStats(ctx context.Context, reports admin.Service, useJSON bool) {
	stats, err := reports.Stats(ctx)
	if err != nil {
		log.Fatalf("Failed to get statistics: %v", err)
	}

	if useJSON {
		printJSON(stats)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KIND\tCOUNT\tNEWEST\n")
	for _, kind := range catalog.Kinds() {
		ks := stats.ByKind[kind]
		newest := "-"
		if !ks.Newest.IsZero() {
			newest = ks.Newest.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", kind, ks.Count, newest)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d\n", stats.TotalCount)
	fmt.Printf("Computed at: %s\n", stats.ComputedAt.Format(time.RFC3339))
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(data))
}

func stringField(doc catalog.Document, keys ...string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && s != "" {
			return s
		}
	}
	return "-"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
