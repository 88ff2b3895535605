// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// DEVICE INTERFACE
// =============================================================================

// Hardware names a toggleable radio or sensor.
type Hardware string

const (
	WiFi       Hardware = "wifi"
	Bluetooth  Hardware = "bluetooth"
	Flashlight Hardware = "flash"
	Hotspot    Hardware = "hotspot"
	Location   Hardware = "location"
	Mic        Hardware = "mic"
	Camera     Hardware = "camera"
)

// Device is everything the launcher asks of the phone.
type Device interface {
	Call(ctx context.Context, number string) Result
	SendSMS(ctx context.Context, number, body string) Result
	SendWhatsApp(ctx context.Context, number, body string) Result
	SendEmail(ctx context.Context, to, subject, body string) Result
	Navigate(ctx context.Context, destination string) Result
	LaunchApp(ctx context.Context, name string) Result

	// Toggle sets hw to *state, or flips it when state is nil. The
	// resulting state is returned alongside the Result.
	Toggle(ctx context.Context, hw Hardware, state *bool) (bool, Result)

	// Shell runs an allowlisted command and returns its output.
	Shell(ctx context.Context, name string, args []string) (string, Result)

	Contacts() *ContactBook
	Emails() []Email
	Chats() []Chat
	Messages() []Message
	SearchPlaces(query string) []Place
}

// =============================================================================
// ANDROID BRIDGE
// =============================================================================

// Options configures an Android bridge.
type Options struct {
	// Timeout bounds each command. Defaults to 5 seconds.
	Timeout time.Duration

	// Connected forces intent delivery. When false, ANDROID_ROOT decides.
	Connected bool

	// IntentsPerSecond throttles intents. 0 disables throttling.
	IntentsPerSecond float64

	// Runner executes commands. Defaults to ExecRunner.
	Runner Runner

	Logger zerolog.Logger
}

// DefaultTimeout is the deadline applied to each device command.
const DefaultTimeout = 5 * time.Second

// ShellAllowlist holds the commands Shell may execute.
var ShellAllowlist = map[string]bool{"ls": true}

// Android implements Device using `am start` intents.
type Android struct {
	Feeds

	runner    Runner
	timeout   time.Duration
	connected bool
	limiter   *rate.Limiter
	contacts  *ContactBook
	log       zerolog.Logger

	mu    sync.Mutex
	state map[Hardware]bool
}

// NewAndroid returns a bridge over the given contact book.
func NewAndroid(book *ContactBook, opts Options) *Android {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if book == nil {
		book = NewContactBook(nil)
	}

	a := &Android{
		runner:    opts.Runner,
		timeout:   opts.Timeout,
		connected: opts.Connected || os.Getenv("ANDROID_ROOT") != "",
		contacts:  book,
		log:       opts.Logger.With().Str("component", "bridge").Logger(),
		state:     map[Hardware]bool{WiFi: true, Bluetooth: false, Location: true},
	}
	if opts.IntentsPerSecond > 0 {
		burst := int(opts.IntentsPerSecond * 2)
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(opts.IntentsPerSecond), burst)
	}
	return a
}

// Connected reports whether intents are actually delivered.
func (a *Android) Connected() bool { return a.connected }

// Contacts returns the contact book.
func (a *Android) Contacts() *ContactBook { return a.contacts }

// run executes one command under the bridge deadline.
func (a *Android) run(ctx context.Context, name string, args ...string) ([]byte, Result) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.runner.Run(ctx, name, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			a.log.Warn().Str("cmd", name).Dur("timeout", a.timeout).Msg("device command timed out")
			return out, Failure(fmt.Errorf("%w (%s)", ErrTimeout, a.timeout))
		}
		a.log.Warn().Err(err).Str("cmd", name).Msg("device command failed")
		return out, Failure(err)
	}
	a.log.Debug().Str("cmd", name).Dur("took", time.Since(start)).Msg("device command ok")
	return out, Success()
}

// intent fires `am start` with args when connected.
func (a *Android) intent(ctx context.Context, args ...string) Result {
	if !a.connected {
		a.log.Debug().Strs("intent", args).Msg("not on a device, intent skipped")
		return Success()
	}
	if a.limiter != nil && !a.limiter.Allow() {
		return Failure(ErrRateLimited)
	}
	_, res := a.run(ctx, "am", append([]string{"start"}, args...)...)
	return res
}

// Call dials number.
func (a *Android) Call(ctx context.Context, number string) Result {
	return a.intent(ctx, "-a", "android.intent.action.CALL", "-d", "tel:"+number)
}

// SendSMS opens the SMS composer with body prefilled.
func (a *Android) SendSMS(ctx context.Context, number, body string) Result {
	return a.intent(ctx, "-a", "android.intent.action.SENDTO", "-d", "sms:"+number, "--es", "sms_body", body)
}

// SendWhatsApp opens a WhatsApp chat with body prefilled.
func (a *Android) SendWhatsApp(ctx context.Context, number, body string) Result {
	u := "https://wa.me/" + url.PathEscape(number) + "?text=" + url.QueryEscape(body)
	return a.intent(ctx, "-a", "android.intent.action.VIEW", "-d", u)
}

// SendEmail opens the mail composer.
func (a *Android) SendEmail(ctx context.Context, to, subject, body string) Result {
	return a.intent(ctx, "-a", "android.intent.action.SENDTO", "-d", "mailto:"+to,
		"--es", "android.intent.extra.SUBJECT", subject,
		"--es", "android.intent.extra.TEXT", body)
}

// Navigate starts navigation to destination.
func (a *Android) Navigate(ctx context.Context, destination string) Result {
	return a.intent(ctx, "-a", "android.intent.action.VIEW", "-d", "geo:0,0?q="+url.QueryEscape(destination))
}

var appIntents = map[string][]string{
	"firefox":    {"-a", "android.intent.action.MAIN", "-c", "android.intent.category.APP_BROWSER"},
	"calculator": {"-a", "android.intent.action.MAIN", "-c", "android.intent.category.APP_CALCULATOR"},
	"maps":       {"-a", "android.intent.action.MAIN", "-c", "android.intent.category.APP_MAPS"},
	"contacts":   {"-a", "android.intent.action.MAIN", "-c", "android.intent.category.APP_CONTACTS"},
	"messages":   {"-a", "android.intent.action.MAIN", "-c", "android.intent.category.APP_MESSAGING"},
	"camera":     {"-a", "android.media.action.STILL_IMAGE_CAMERA"},
	"settings":   {"-a", "android.settings.SETTINGS"},
	"phone":      {"-a", "android.intent.action.DIAL"},
}

// LaunchApp starts the named application.
func (a *Android) LaunchApp(ctx context.Context, name string) Result {
	args, ok := appIntents[name]
	if !ok {
		args = []string{"-a", "android.intent.action.MAIN", "-n", name}
	}
	return a.intent(ctx, args...)
}

var svcNames = map[Hardware]string{WiFi: "wifi", Bluetooth: "bluetooth"}

// Toggle flips or sets a hardware switch. Radios with a `svc` switch are
// driven on the device; the rest only track state.
func (a *Android) Toggle(ctx context.Context, hw Hardware, state *bool) (bool, Result) {
	a.mu.Lock()
	next := !a.state[hw]
	if state != nil {
		next = *state
	}
	a.mu.Unlock()

	if svc, ok := svcNames[hw]; ok && a.connected {
		verb := "disable"
		if next {
			verb = "enable"
		}
		if _, res := a.run(ctx, "svc", svc, verb); !res.OK {
			return !next, res
		}
	}

	a.mu.Lock()
	a.state[hw] = next
	a.mu.Unlock()
	return next, Success()
}

// Shell runs an allowlisted command with the bridge deadline.
func (a *Android) Shell(ctx context.Context, name string, args []string) (string, Result) {
	if !ShellAllowlist[name] {
		return "", Failure(fmt.Errorf("%w: %s", ErrNotAllowed, name))
	}
	out, res := a.run(ctx, name, args...)
	return string(out), res
}
