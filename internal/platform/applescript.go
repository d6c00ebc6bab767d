package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// Markers returned by the generated scripts.
const (
	scriptSuccess  = "success"
	scriptNotFound = "window_not_found"
	scriptErrorTag = "error: "
)

// quoteAppleScript renders s as an AppleScript string literal.
func quoteAppleScript(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func boundsLiteral(b Bounds) string {
	return fmt.Sprintf("{%d, %d, %d, %d}", b.Left, b.Top, b.Right, b.Bottom)
}

// titleCondition builds "name of w contains a or name of w contains b".
func titleCondition(subject string, markers []string) string {
	parts := make([]string, 0, len(markers))
	for _, m := range markers {
		parts = append(parts, fmt.Sprintf("%s contains %s", subject, quoteAppleScript(m)))
	}
	return strings.Join(parts, " or ")
}

// setTitleJavaScript returns the in-page script that overwrites document.title.
func setTitleJavaScript(label string) string {
	return "document.title = " + strconv.Quote(label)
}

func batchScript(app string, markers []string, slots []BatchSlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tell application %s\n", quoteAppleScript(app))
	b.WriteString("  set windowCount to 0\n")
	b.WriteString("  repeat with w in windows\n")
	b.WriteString("    set windowName to name of w\n")
	fmt.Fprintf(&b, "    if %s then\n", titleCondition("windowName", markers))
	b.WriteString("      set windowCount to windowCount + 1\n")
	for i, slot := range slots {
		keyword := "if"
		if i > 0 {
			keyword = "else if"
		}
		fmt.Fprintf(&b, "      %s windowCount is %d then\n", keyword, i+1)
		fmt.Fprintf(&b, "        set bounds of w to %s\n", boundsLiteral(slot.Bounds))
		if slot.TitleLabel != "" {
			b.WriteString("        tell tab 1 of w\n")
			fmt.Fprintf(&b, "          execute javascript %s\n", quoteAppleScript(setTitleJavaScript(slot.TitleLabel)))
			b.WriteString("        end tell\n")
		}
	}
	if len(slots) > 0 {
		b.WriteString("      end if\n")
	}
	fmt.Fprintf(&b, "      if windowCount is %d then exit repeat\n", len(slots))
	b.WriteString("    end if\n")
	b.WriteString("  end repeat\n")
	b.WriteString("  return windowCount\n")
	b.WriteString("end tell\n")
	return b.String()
}

func tabURLScript(app, urlFragment string, bounds Bounds) string {
	return fmt.Sprintf(`tell application %s
  repeat with w in windows
    repeat with t in tabs of w
      if URL of t contains %s then
        set bounds of w to %s
        return %q
      end if
    end repeat
  end repeat
  return %q
end tell
`, quoteAppleScript(app), quoteAppleScript(urlFragment), boundsLiteral(bounds), scriptSuccess, scriptNotFound)
}

// titleScript goes through System Events, whose windows expose position and
// size rather than bounds.
func titleScript(process string, markers []string, frame Rect) string {
	return fmt.Sprintf(`tell application "System Events"
  try
    tell process %s
      repeat with w in windows
        if %s then
          set position of w to {%d, %d}
          set size of w to {%d, %d}
          return %q
        end if
      end repeat
      return %q
    end tell
  on error errMsg
    return %q & errMsg
  end try
end tell
`, quoteAppleScript(process), titleCondition("name of w", markers),
		frame.X, frame.Y, frame.Width, frame.Height,
		scriptSuccess, scriptNotFound, scriptErrorTag)
}

func frameScript(processSpecifier string, frame Rect) string {
	return fmt.Sprintf(`tell application "System Events"
  tell %s
    tell window 1
      set position to {%d, %d}
      set size to {%d, %d}
    end tell
  end tell
end tell
`, processSpecifier, frame.X, frame.Y, frame.Width, frame.Height)
}

func pidFrameScript(pid int, frame Rect) string {
	return frameScript(fmt.Sprintf("(first process whose unix id is %d)", pid), frame)
}

func processFrameScript(process string, frame Rect) string {
	return frameScript("process "+quoteAppleScript(process), frame)
}

// listWindowsScript prints one line per window: left, top, right, bottom
// and name separated by tabs.
func listWindowsScript(app string) string {
	return fmt.Sprintf(`tell application %s
  set output to ""
  set sep to character id 9
  set nl to character id 10
  repeat with w in windows
    set b to bounds of w
    set output to output & (item 1 of b) & sep & (item 2 of b) & sep & (item 3 of b) & sep & (item 4 of b) & sep & (name of w) & nl
  end repeat
  return output
end tell
`, quoteAppleScript(app))
}

// parseWindowList parses the output of listWindowsScript.
func parseWindowList(out string) ([]Window, error) {
	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 5)
		switch len(fields) {
		case 5:
		case 4:
			// An untitled last window loses its trailing tab when output is trimmed.
			fields = append(fields, "")
		default:
			return nil, fmt.Errorf("unexpected window line %q", line)
		}
		var coords [4]int
		for i := 0; i < 4; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				return nil, fmt.Errorf("invalid bound %q in line %q: %w", fields[i], line, err)
			}
			coords[i] = n
		}
		windows = append(windows, Window{
			Index:  len(windows) + 1,
			Title:  fields[4],
			Bounds: Bounds{Left: coords[0], Top: coords[1], Right: coords[2], Bottom: coords[3]},
		})
	}
	return windows, nil
}
