package outline

import (
	"regexp"
	"strings"

	"github.com/temirov/cpai/internal/types"
)

// No Solidity grammar ships with go-tree-sitter, so contracts are read by a
// line scanner that blanks comments and string literals before matching.

const (
	solidityFallbackName       = "fallback"
	solidityPrivatePrefix      = "_"
	solidityMaxSignatureLines  = 32
	solidityLineCommentMarker  = "//"
	solidityBlockCommentOpen   = "/*"
	solidityBlockCommentClose  = "*/"
	solidityBlockOpen          = "{"
	solidityBlockClose         = "}"
	solidityStatementTerminate = ";"
)

var (
	solidityContainerPattern = regexp.MustCompile(`^(?:abstract\s+)?(?:contract|interface|library)\s+([A-Za-z_$][\w$]*)`)
	solidityFunctionPattern  = regexp.MustCompile(`^function\s+([A-Za-z_$][\w$]*)\s*\(`)
	solidityUnnamedPattern   = regexp.MustCompile(`^function\s*\(`)
	soliditySpecialPattern   = regexp.MustCompile(`^(constructor|fallback|receive)\s*\(`)
	solidityReturnsPattern   = regexp.MustCompile(`\breturns\s*\(`)
)

type solidityLine struct {
	code          string
	text          string
	isBlank       bool
	isCommentOnly bool
}

// solidityContainer tracks the brace depth at which a contract, interface or library started.
type solidityContainer struct {
	depth  int
	opened bool
}

func extractSolidity(content []byte) ([]types.OutlineRecord, error) {
	lines := scanSolidityLines(string(content))

	var accumulator recordAccumulator
	var pendingComment []string
	var container *solidityContainer
	braceDepth := 0

	for lineIndex, line := range lines {
		if line.isBlank {
			pendingComment = nil
			continue
		}
		if line.isCommentOnly {
			pendingComment = append(pendingComment, line.text)
			continue
		}
		leadingComment := strings.Join(pendingComment, commentLineJoiner)
		pendingComment = nil

		if match := solidityContainerPattern.FindStringSubmatch(line.code); match != nil {
			if name := match[1]; !strings.HasPrefix(name, solidityPrivatePrefix) {
				accumulator.add(types.OutlineRecord{
					Name:           name,
					Kind:           types.OutlineKindClass,
					Line:           lineIndex + 1,
					LeadingComment: leadingComment,
				})
			}
			container = &solidityContainer{depth: braceDepth}
		} else if name, found := solidityFunctionName(line.code); found && !strings.HasPrefix(name, solidityPrivatePrefix) {
			signature := soliditySignature(lines, lineIndex)
			kind := types.OutlineKindFunction
			if container != nil {
				kind = types.OutlineKindMethod
			}
			accumulator.add(types.OutlineRecord{
				Name:           name,
				Kind:           kind,
				Line:           lineIndex + 1,
				Parameters:     solidityParameters(signature),
				ReturnType:     solidityReturnType(signature),
				LeadingComment: leadingComment,
			})
		}

		opens := strings.Count(line.code, solidityBlockOpen)
		braceDepth += opens - strings.Count(line.code, solidityBlockClose)
		if container != nil {
			if opens > 0 {
				container.opened = true
			}
			if container.opened && braceDepth <= container.depth {
				container = nil
			}
		}
	}
	return accumulator.result(), nil
}

func solidityFunctionName(code string) (string, bool) {
	if match := solidityFunctionPattern.FindStringSubmatch(code); match != nil {
		return match[1], true
	}
	if match := soliditySpecialPattern.FindStringSubmatch(code); match != nil {
		return match[1], true
	}
	if solidityUnnamedPattern.MatchString(code) {
		return solidityFallbackName, true
	}
	return "", false
}

// soliditySignature joins code lines from start until the body opens or the declaration ends.
func soliditySignature(lines []solidityLine, start int) string {
	var signatureParts []string
	for lineIndex := start; lineIndex < len(lines) && lineIndex < start+solidityMaxSignatureLines; lineIndex++ {
		code := lines[lineIndex].code
		if code == "" {
			continue
		}
		if cut := strings.IndexAny(code, solidityBlockOpen+solidityStatementTerminate); cut >= 0 {
			signatureParts = append(signatureParts, code[:cut])
			break
		}
		signatureParts = append(signatureParts, code)
	}
	return strings.Join(signatureParts, " ")
}

func solidityParameters(signature string) string {
	openIndex := strings.Index(signature, parameterListOpen)
	if openIndex < 0 {
		return ""
	}
	return collapseWhitespace(balancedGroup(signature, openIndex))
}

func solidityReturnType(signature string) string {
	location := solidityReturnsPattern.FindStringIndex(signature)
	if location == nil {
		return ""
	}
	return collapseWhitespace(balancedGroup(signature, location[1]-1))
}

// balancedGroup returns the text inside the parentheses opening at openIndex.
func balancedGroup(text string, openIndex int) string {
	depth := 0
	for index := openIndex; index < len(text); index++ {
		switch text[index] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[openIndex+1 : index]
			}
		}
	}
	return text[openIndex+1:]
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// scanSolidityLines splits content into lines whose code has comments removed
// and string literal contents blanked, carrying block comment state across lines.
func scanSolidityLines(content string) []solidityLine {
	rawLines := strings.Split(content, "\n")
	lines := make([]solidityLine, 0, len(rawLines))
	inBlockComment := false
	for _, rawLine := range rawLines {
		rawLine = strings.TrimRight(rawLine, "\r")
		var code strings.Builder
		hasComment := false
		for index := 0; index < len(rawLine); index++ {
			remainder := rawLine[index:]
			if inBlockComment {
				hasComment = true
				if strings.HasPrefix(remainder, solidityBlockCommentClose) {
					inBlockComment = false
					index++
				}
				continue
			}
			if strings.HasPrefix(remainder, solidityLineCommentMarker) {
				hasComment = true
				break
			}
			if strings.HasPrefix(remainder, solidityBlockCommentOpen) {
				inBlockComment = true
				hasComment = true
				index++
				continue
			}
			character := rawLine[index]
			code.WriteByte(character)
			if character == '"' || character == '\'' {
				closing := index + 1
				for closing < len(rawLine) && rawLine[closing] != character {
					if rawLine[closing] == '\\' {
						closing++
					}
					closing++
				}
				code.WriteByte(character)
				index = closing
			}
		}
		codeText := strings.TrimSpace(code.String())
		trimmedLine := strings.TrimSpace(rawLine)
		lines = append(lines, solidityLine{
			code:          codeText,
			text:          trimmedLine,
			isBlank:       trimmedLine == "",
			isCommentOnly: codeText == "" && hasComment,
		})
	}
	return lines
}
