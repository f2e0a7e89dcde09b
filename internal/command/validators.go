// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/staranto/memocall/internal/memo"
	"github.com/staranto/memocall/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func PolicyValidator(value any) error {
	if _, err := memo.ParsePolicy(value.(string)); err != nil {
		return fmt.Errorf("must be one of %v", memo.PolicyNames())
	}
	return nil
}

func PositiveIntValidator(value any) error {
	if value.(int) <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func NonNegativeIntValidator(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// URLValidator accepts absolute http and https URLs.
func URLValidator(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", value, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", value)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", value)
	}
	return nil
}
