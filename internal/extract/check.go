package extract

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/keyword-extractor/internal/common"
	"github.com/urfave/cli/v2"
)

const checkPrompt = "说'你好'"

// CheckAction sends a trivial prompt through the configured backend to
// confirm it is reachable before a full run.
func CheckAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	logger.Info("Checking extraction backend", "backend", cfg.Backend, "command", cfg.Command, "api_url", cfg.APIURL)

	resp, err := common.NewService(cfg).Query(c.Context, checkPrompt)
	if err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	if resp.ReturnCode != 0 {
		return fmt.Errorf("backend returned status %d: %s", resp.ReturnCode, strings.TrimSpace(resp.Error))
	}

	fmt.Printf("✓ Backend OK, reply: %s\n", strings.TrimSpace(resp.Output))
	return nil
}
