package rating

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"skill-share/internal/domain/user"

	"go.uber.org/zap"
)

var (
	ErrInvalidRating   = errors.New("invalid number")
	ErrTooManyAttempts = errors.New("too many invalid ratings")
	ErrNoRating        = errors.New("no rating for member")
)

// Prompt asks for ratings line by line, re-prompting on anything that is not
// an integer. MaxAttempts bounds the number of malformed lines per member;
// zero means keep asking. The context is checked between lines, a read that
// is already blocked returns only when the input yields a line or ends.
type Prompt struct {
	in          *bufio.Scanner
	out         io.Writer
	maxAttempts int
	log         *zap.Logger
}

func NewPrompt(in io.Reader, out io.Writer, maxAttempts int, log *zap.Logger) *Prompt {
	if log == nil {
		log = zap.NewNop()
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &Prompt{
		in:          bufio.NewScanner(in),
		out:         out,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (p *Prompt) Rate(ctx context.Context, member *user.User) (int, error) {
	if member == nil {
		return 0, user.ErrNilUser
	}
	fmt.Fprintf(p.out, "Please rate %s\n", member.ID())

	invalid := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, fmt.Errorf("read rating: %w", err)
			}
			return 0, fmt.Errorf("read rating: %w", io.ErrUnexpectedEOF)
		}

		r, err := Parse(p.in.Text())
		if err == nil {
			return r, nil
		}

		invalid++
		p.log.Debug("rejected rating input", zap.String("member", member.ID()), zap.Int("attempt", invalid))
		fmt.Fprintln(p.out, "Invalid number.")
		if p.maxAttempts > 0 && invalid >= p.maxAttempts {
			return 0, fmt.Errorf("rate %s: %w", member.ID(), ErrTooManyAttempts)
		}
	}
}

func Parse(line string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, ErrInvalidRating
	}
	return v, nil
}
