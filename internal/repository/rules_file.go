package repository

import (
	"fmt"
	"os"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type rulesFile struct {
	Rules []struct {
		ID          string `yaml:"id"`
		Minimum     string `yaml:"minimum"`
		Maximum     string `yaml:"maximum"`
		Percentage  string `yaml:"percentage"`
		Description string `yaml:"description"`
	} `yaml:"rules"`
}

// LoadRulesFile reads commission tiers from a YAML file of the form
//
//	rules:
//	  - id: basic
//	    minimum: 0
//	    maximum: 10000
//	    percentage: 3
func LoadRulesFile(path string) ([]domain.RateRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates YAML rule data.
func ParseRules(data []byte) ([]domain.RateRule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rules := make([]domain.RateRule, 0, len(f.Rules))
	for i, r := range f.Rules {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("rule-%d", i+1)
		}
		rule := domain.RateRule{ID: id, Description: r.Description}
		for _, field := range []struct {
			name string
			raw  string
			dst  *decimal.Decimal
		}{
			{"minimum", r.Minimum, &rule.Minimum},
			{"maximum", r.Maximum, &rule.Maximum},
			{"percentage", r.Percentage, &rule.Percentage},
		} {
			v, err := decimal.NewFromString(field.raw)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q %s %q", domain.ErrInvalidRecord, id, field.name, field.raw)
			}
			*field.dst = v
		}
		rules = append(rules, rule)
	}

	if err := domain.ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}
