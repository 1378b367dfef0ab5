package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a dot-separated hierarchy such as "Bench.Grid". Every element is
// non-empty, starts with a capital letter, contains no '_', '-' or quotes,
// and may carry square-bracket indices, as in "Bench.Grid[2]".
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %v", name, err))
	}
}

func validateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		if err := validateNameElement(elem); err != nil {
			return err
		}
	}

	return nil
}

func validateNameElement(elem string) error {
	base, indices, _ := strings.Cut(elem, "[")

	if base == "" {
		return fmt.Errorf("name element must not be empty")
	}

	if strings.ContainsAny(base, "_\"'-") {
		return fmt.Errorf("name element %q contains an invalid character", base)
	}

	if base[0] < 'A' || base[0] > 'Z' {
		return fmt.Errorf("name element %q must start with a capital letter", base)
	}

	if indices == "" {
		return nil
	}

	for _, idx := range strings.Split(strings.TrimSuffix(indices, "]"), "][") {
		if _, err := strconv.Atoi(idx); err != nil {
			return fmt.Errorf("name index %q must be an integer", idx)
		}
	}

	if !strings.HasSuffix(indices, "]") {
		return fmt.Errorf("name bracket must match")
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
