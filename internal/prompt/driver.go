package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt (Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// Question asks for free text. Validate, when set, runs before the answer
// is accepted and its error is shown inline.
type Question struct {
	Message  string
	Help     string
	Validate func(string) error
}

// Choice asks the user to pick one of Options. Default preselects an
// option by value.
type Choice struct {
	Message string
	Options []string
	Default string
}

// Driver is the terminal seam; tests replace it with scripted answers.
type Driver interface {
	Ask(ctx context.Context, q Question) (string, error)
	Choose(ctx context.Context, c Choice) (int, error)
	Show(ctx context.Context, msg string) error
}

// SurveyDriver prompts on the terminal with survey.
type SurveyDriver struct {
	out io.Writer
}

// NewSurveyDriver prompts on the terminal and prints Show output to out,
// or to stdout when out is nil.
func NewSurveyDriver(out io.Writer) *SurveyDriver {
	if out == nil {
		out = os.Stdout
	}
	return &SurveyDriver{out: out}
}

func (d *SurveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	var answer string
	var opts []survey.AskOpt
	if q.Validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return q.Validate(s)
		}))
	}
	err := ask(ctx, &survey.Input{Message: q.Message, Help: q.Help}, &answer, opts...)
	return answer, err
}

func (d *SurveyDriver) Choose(ctx context.Context, c Choice) (int, error) {
	if len(c.Options) == 0 {
		return -1, errors.New("prompt: nothing to choose from")
	}
	sel := &survey.Select{Message: c.Message, Options: c.Options, PageSize: 12}
	if c.Default != "" {
		sel.Default = c.Default
	}
	var picked string
	if err := ask(ctx, sel, &picked); err != nil {
		return -1, err
	}
	for i, option := range c.Options {
		if option == picked {
			return i, nil
		}
	}
	return -1, nil
}

func (d *SurveyDriver) Show(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func ask(ctx context.Context, p survey.Prompt, dst any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(p, dst, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
