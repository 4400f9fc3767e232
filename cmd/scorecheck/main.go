package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/park285/daily-scores-bot/internal/adapter/scorepresenter"
	"github.com/park285/daily-scores-bot/internal/irisfast"
	"github.com/park285/daily-scores-bot/internal/scoreparse"
	"github.com/park285/daily-scores-bot/internal/service/scores"
	"github.com/park285/daily-scores-bot/pkg/scoredto"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "scorecheck",
		Usage:     "parse pasted game results and probe Iris",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "parse a share text from FILE or stdin and print the record as JSON",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Usage: "format tag; detected from the text when empty"},
					&cli.StringFlag{Name: "date", Usage: "nominal game date (YYYY-MM-DD); today when empty"},
					&cli.StringFlag{Name: "submitter", Value: "scorecheck", Usage: "submitter id"},
					&cli.StringFlag{Name: "tz", Value: "America/New_York", Usage: "zone for the date and timestamp"},
				},
				Action: func(c *cli.Context) error {
					text, err := readInput(c.Args().First(), in)
					if err != nil {
						return err
					}
					loc, err := time.LoadLocation(c.String("tz"))
					if err != nil {
						return fmt.Errorf("tz: %w", err)
					}
					return writeJSON(out, parseText(scoreparse.New(scoreparse.WithLocation(loc)),
						c.String("tag"), c.String("date"), c.String("submitter"), text))
				},
			},
			{
				Name:  "tags",
				Usage: "list supported format tags",
				Action: func(c *cli.Context) error {
					for _, t := range scoreparse.Tags() {
						fmt.Fprintln(out, t)
					}
					return nil
				},
			},
			{
				Name:  "iris",
				Usage: "check the Iris /config endpoint (IRIS_BASE_URL, X_USER_* from env)",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "watch", Usage: "also connect IRIS_WS_URL and print messages for this long"},
				},
				Action: func(c *cli.Context) error {
					return checkIris(c.Context, out, c.Duration("watch"))
				},
			},
		},
	}
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

type result struct {
	Tag      string                   `json:"tag"`
	Response *scoredto.SubmitResponse `json:"response,omitempty"`
	Error    *scoredto.DomainError    `json:"error,omitempty"`
}

func parseText(p *scoreparse.Parser, tag, date, submitter, text string) result {
	text = scoreparse.TrimLeading(text)
	if strings.TrimSpace(tag) == "" {
		detected, ok := scoreparse.DetectTag(text)
		if !ok {
			return result{Error: &scoredto.DomainError{Code: "unknown_tag", Message: "no supported format tag at the start of the text"}}
		}
		tag = detected
	}
	if strings.TrimSpace(date) == "" {
		date = p.NominalDate(time.Now())
	}

	rec, err := p.Parse(tag, date, submitter, text)
	if err != nil {
		code := "rejected"
		if scoreparse.IsHard(err) {
			code = "parse_failed"
		}
		return result{Tag: tag, Error: &scoredto.DomainError{Code: code, Message: scoreparse.Reason(err), Retryable: !scoreparse.IsHard(err)}}
	}
	return result{Tag: tag, Response: &scoredto.SubmitResponse{
		Record:  scorepresenter.ToDTORecord(rec),
		Message: scores.ConfirmationText(rec),
	}}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func checkIris(ctx context.Context, out io.Writer, watch time.Duration) error {
	baseURL := strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	if baseURL == "" {
		return errors.New("IRIS_BASE_URL is required")
	}
	headers := func() map[string]string {
		return map[string]string{
			"X-User-Id":    os.Getenv("X_USER_ID"),
			"X-User-Email": os.Getenv("X_USER_EMAIL"),
			"X-Session-Id": os.Getenv("X_SESSION_ID"),
		}
	}

	client := irisfast.NewClient(baseURL, irisfast.WithHeaderProvider(headers), irisfast.WithTimeout(8*time.Second))
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	cfg, err := client.GetConfig(cctx)
	cancel()
	if err != nil {
		return fmt.Errorf("/config: %w", err)
	}
	fmt.Fprintf(out, "/config ok: bot=%s port=%d polling=%d rate=%d endpoint=%s\n",
		cfg.BotName, cfg.Port, cfg.PollingSpeed, cfg.MessageRate, cfg.WebserverEndpoint)

	wsURL := strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	if watch <= 0 || wsURL == "" {
		return nil
	}
	ws := irisfast.NewWebSocket(wsURL, 0, 30*time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		fmt.Fprintf(out, "ws state: %s\n", state)
	})
	ws.OnMessage(func(msg *irisfast.Message) {
		tag, _ := scoreparse.DetectTag(msg.Msg)
		fmt.Fprintf(out, "ws msg room=%s from=%s tag=%q text=%q\n", msg.Room, msg.SenderID(), tag, msg.Msg)
	})
	dctx, dcancel := context.WithTimeout(ctx, 10*time.Second)
	err = ws.Connect(dctx)
	dcancel()
	if err != nil {
		return fmt.Errorf("ws connect: %w", err)
	}

	t := time.NewTimer(watch)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer closeCancel()
	return ws.Close(closeCtx)
}
