package rest

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dfryer1193/teamdojo/dojo/domain"
)

const (
	defaultPageSize = 20
	// DefaultMaxPageSize caps the size parameter unless configured otherwise
	DefaultMaxPageSize = 2000
)

// parsePageable reads page, size and sort. Out of range page and size values fall
// back to defaults; an unknown sort property is an error.
func parsePageable(q url.Values, sortable []string, maxSize int) (domain.Pageable, error) {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	// page*size is the row offset and must not overflow
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}

	pageable := domain.Pageable{Page: page, Size: size}
	for _, s := range q["sort"] {
		orders, err := parseSort(s, sortable)
		if err != nil {
			return domain.Pageable{}, err
		}
		pageable.Sort = append(pageable.Sort, orders...)
	}

	return pageable, nil
}

// parseSort accepts "prop", "prop,asc|desc" and "a,b,desc", where the direction applies to every listed property.
func parseSort(s string, sortable []string) ([]domain.Order, error) {
	parts := strings.Split(s, ",")
	dir := domain.Asc
	switch strings.ToLower(parts[len(parts)-1]) {
	case "asc":
		parts = parts[:len(parts)-1]
	case "desc":
		dir = domain.Desc
		parts = parts[:len(parts)-1]
	}

	orders := make([]domain.Order, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !slices.Contains(sortable, p) {
			return nil, &ValidationError{ObjectName: "pageable", Field: "sort", Message: "unknown property " + p}
		}
		orders = append(orders, domain.Order{Property: p, Direction: dir})
	}
	return orders, nil
}

const imageCriteriaName = "imageCriteria"

// parseImageCriteria reads the id.*, name.* and hash.* filter parameters.
func parseImageCriteria(q url.Values) (domain.ImageCriteria, error) {
	p := criteriaParser{q: q, objectName: imageCriteriaName}

	criteria := domain.ImageCriteria{
		ID:   p.long("id"),
		Name: p.text("name", true),
		Hash: p.text("hash", false),
	}
	if p.err != nil {
		return domain.ImageCriteria{}, p.err
	}
	return criteria, nil
}

// criteriaParser remembers the first malformed parameter.
type criteriaParser struct {
	q          url.Values
	objectName string
	err        error
}

func (p *criteriaParser) fail(field, message string) {
	if p.err == nil {
		p.err = &ValidationError{ObjectName: p.objectName, Field: field, Message: message}
	}
}

func (p *criteriaParser) number(key string) *int64 {
	raw, ok := p.q[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw[0]), 10, 64)
	if err != nil {
		p.fail(key, "must be a number")
		return nil
	}
	return &v
}

func (p *criteriaParser) value(key string) *string {
	raw, ok := p.q[key]
	if !ok {
		return nil
	}
	return &raw[0]
}

func (p *criteriaParser) flag(key string) *bool {
	raw, ok := p.q[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw[0])
	if err != nil {
		p.fail(key, "must be true or false")
		return nil
	}
	return &v
}

// list splits comma separated values; the parameter may also repeat.
func (p *criteriaParser) list(key string) ([]string, bool) {
	raw, ok := p.q[key]
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values, true
}

func (p *criteriaParser) long(field string) domain.LongFilter {
	f := domain.LongFilter{
		Equals:             p.number(field + ".equals"),
		NotEquals:          p.number(field + ".notEquals"),
		GreaterThan:        p.number(field + ".greaterThan"),
		LessThan:           p.number(field + ".lessThan"),
		GreaterThanOrEqual: p.number(field + ".greaterThanOrEqual"),
		LessThanOrEqual:    p.number(field + ".lessThanOrEqual"),
		Specified:          p.flag(field + ".specified"),
	}

	if raw, ok := p.list(field + ".in"); ok {
		f.In = make([]int64, 0, len(raw))
		for _, r := range raw {
			v, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
			if err != nil {
				p.fail(field+".in", "must be a list of numbers")
				break
			}
			f.In = append(f.In, v)
		}
	}

	return f
}

func (p *criteriaParser) text(field string, full bool) domain.StringFilter {
	f := domain.StringFilter{
		Equals:    p.value(field + ".equals"),
		Specified: p.flag(field + ".specified"),
	}
	if !full {
		return f
	}

	f.NotEquals = p.value(field + ".notEquals")
	f.Contains = p.value(field + ".contains")
	if values, ok := p.list(field + ".in"); ok {
		f.In = values
	}
	return f
}
