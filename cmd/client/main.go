package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/state/session"
)

const usage = `usage: client [flags] <command> [args]

commands:
  list                     reload and print the listing
  search                   reload and print jobs matching -q/-location/-type/-level/-remote
  show <id>                fetch one job
  save <id>                add a job to the saved set
  unsave <id>              remove a job from the saved set
  apply <id>               add a job to the applied set
  saved | applied          print the persisted sets
  login <email> <password>
  register <name> <email> <password> [candidate|employer]
  logout
  refresh                  exchange the refresh token
  forgot <email>
  reset <token> <password>
  post <file.json>         post a new job as the signed-in employer
  whoami
  watch                    follow jobs_updated pushes and scheduled reloads
`

func main() {
	query := flag.String("q", "", "free-text search term")
	location := flag.String("location", "", "location substring")
	types := flag.String("type", "", "comma-separated job types")
	levels := flag.String("level", "", "comma-separated experience levels")
	remote := flag.Bool("remote", false, "remote jobs only")
	timeout := flag.Duration("timeout", 30*time.Second, "per-command timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	c, err := app.NewClient(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init client: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Printf("close error: %v", err)
		}
	}()

	if args[0] == "watch" {
		if err := c.StartScheduler(ctx); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		if err := c.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("watch: %v", err)
		}
		<-ctx.Done()
		return
	}

	cmdCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	patch := job.FilterPatch{
		Search:          query,
		Location:        location,
		JobType:         splitCSV[job.Type](*types),
		ExperienceLevel: splitCSV[job.ExperienceLevel](*levels),
	}
	if *remote {
		patch.Remote = remote
	}

	if err := run(cmdCtx, c, args, patch); err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

func run(ctx context.Context, c *app.Client, args []string, patch job.FilterPatch) error {
	need := func(n int) error {
		if len(args)-1 < n {
			return fmt.Errorf("expected %d argument(s)", n)
		}
		return nil
	}

	switch args[0] {
	case "list":
		st, err := c.Jobs.Reload(ctx)
		if err != nil {
			return err
		}
		return printJSON(st.Jobs)
	case "search":
		if _, err := c.Jobs.Reload(ctx); err != nil {
			return err
		}
		return printJSON(c.Jobs.SetFilters(patch).FilteredJobs)
	case "show":
		if err := need(1); err != nil {
			return err
		}
		j, err := c.Jobs.Fetch(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(j)
	case "save", "unsave", "apply":
		if err := need(1); err != nil {
			return err
		}
		if _, err := c.Jobs.Reload(ctx); err != nil {
			return err
		}
		if _, ok := c.Jobs.Job(args[1]); !ok {
			return job.ErrNotFound
		}
		switch args[0] {
		case "save":
			c.Jobs.SaveJob(args[1])
		case "unsave":
			c.Jobs.UnsaveJob(args[1])
		default:
			c.Jobs.ApplyToJob(args[1])
		}
		return nil
	case "saved":
		return printJSON(c.Jobs.Snapshot().SavedJobs)
	case "applied":
		return printJSON(c.Jobs.Snapshot().AppliedJobs)
	case "login":
		if err := need(2); err != nil {
			return err
		}
		return c.Auth.Login(ctx, args[1], args[2])
	case "register":
		if err := need(3); err != nil {
			return err
		}
		role := user.RoleCandidate
		if len(args) > 4 {
			role = user.Role(args[4])
		}
		return c.Auth.Register(ctx, session.RegisterInput{Name: args[1], Email: args[2], Password: args[3], Role: role})
	case "logout":
		c.Auth.Logout()
		return nil
	case "refresh":
		return c.Auth.RefreshAuthToken(ctx)
	case "forgot":
		if err := need(1); err != nil {
			return err
		}
		return c.Auth.RequestPasswordReset(ctx, args[1])
	case "reset":
		if err := need(2); err != nil {
			return err
		}
		return c.Auth.ResetPassword(ctx, args[1], args[2])
	case "post":
		if err := need(1); err != nil {
			return err
		}
		b, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var in job.NewJob
		if err := json.Unmarshal(b, &in); err != nil {
			return fmt.Errorf("decode %s: %w", args[1], err)
		}
		j, _, err := c.Jobs.PostJob(ctx, in)
		if err != nil {
			return err
		}
		return printJSON(j)
	case "whoami":
		return printJSON(c.Auth.Snapshot().User)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func splitCSV[T ~string](raw string) []T {
	var out []T
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, T(p))
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
