package scrape

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"restyler/internal/logger"
)

// Browser is the second scrape tier: a headless Chromium render for pages
// the plain fetch cannot handle (client-side rendering, bot walls).
type Browser struct {
	log *logger.Logger
}

func NewBrowser() *Browser {
	return &Browser{log: logger.New("Browser")}
}

// BrowserResult is a rendered page.
type BrowserResult struct {
	StatusCode int
	HTML       string
	Title      string
	URL        string
}

// Render navigates to the URL with the given header strategy and returns the
// rendered DOM after dynamic content settles.
func (b *Browser) Render(url string, strategy HeaderStrategy, userAgent string, waitSelectors []string) (*BrowserResult, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright run: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--disable-web-security",
			"--disable-features=VizDisplayCompositor",
			"--no-first-run",
			"--disable-default-apps",
			"--disable-extensions",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch: %w", err)
	}
	defer pw.Stop()
	defer browser.Close()

	profile := GetHeaderProfile(strategy)
	if userAgent != "" {
		profile.UserAgent = userAgent
	}

	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:        playwright.String(profile.UserAgent),
		ExtraHttpHeaders: profile.Headers(),
	})
	if err != nil {
		return nil, err
	}
	page, err := ctx.NewPage()
	if err != nil {
		return nil, err
	}

	resp, navErr := page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded, Timeout: playwright.Float(10000)})
	if navErr != nil {
		// fallback to full load with a longer timeout
		resp, navErr = page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad, Timeout: playwright.Float(20000)})
		if navErr != nil {
			return nil, fmt.Errorf("goto failed: %w", navErr)
		}
	}

	if !b.waitForDynamicContent(page, waitSelectors) {
		b.log.LogWarnf("JavaScript content may not have fully rendered for %s", url)
	}

	content, err := page.Content()
	if err != nil {
		return nil, err
	}
	title, _ := page.Title()

	status := 200
	if resp != nil {
		status = resp.Status()
	}

	return &BrowserResult{
		StatusCode: status,
		HTML:       content,
		Title:      title,
		URL:        url,
	}, nil
}

// waitForDynamicContent gives client-rendered pages a chance to settle:
// custom selectors first, then network idle, then loading indicators.
func (b *Browser) waitForDynamicContent(page playwright.Page, waitSelectors []string) bool {
	for _, selector := range waitSelectors {
		locator := page.Locator(selector)
		if err := locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(3000),
		}); err == nil {
			return true
		}
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(7000),
	}); err == nil {
		return true
	}

	cleared := true
	for _, selector := range []string{".loading", ".spinner", "[data-loading]", ".loader", ".skeleton"} {
		locator := page.Locator(selector)
		if err := locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateHidden,
			Timeout: playwright.Float(2000),
		}); err != nil {
			cleared = false
		}
	}
	return cleared
}

// IsCloudflareBlocked detects a Cloudflare challenge page.
func IsCloudflareBlocked(statusCode int, title, content string) bool {
	if statusCode != 403 {
		return false
	}
	if strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Checking your browser") ||
		strings.Contains(title, "Attention Required") {
		return true
	}
	if strings.Contains(content, "Waiting for") && strings.Contains(content, "to respond") {
		return true
	}
	return strings.Contains(content, "Cloudflare") && strings.Contains(content, "Ray ID")
}
