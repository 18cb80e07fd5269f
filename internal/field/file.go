package field

import (
	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// File is the path picker behind the file kind. It wraps the bubbles
// filepicker and commits the selected path as a string.
type File struct {
	cfg     Config
	picker  filepicker.Model
	path    string
	status  string
	focused bool
}

func newFile(cfg Config) *File {
	fp := filepicker.New()
	fp.AllowedTypes = cfg.AllowedTypes
	fp.Height = 8
	if cfg.Directory != "" {
		fp.CurrentDirectory = cfg.Directory
	}

	f := &File{cfg: cfg, picker: fp}
	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok {
			f.path = s
		}
	}
	return f
}

func (f *File) Init() tea.Cmd {
	return f.picker.Init()
}

func (f *File) Update(msg tea.Msg) (Input, tea.Cmd) {
	// Directory listings arrive as picker-internal messages, so the picker
	// sees every message; key routing is handled by the form.
	var cmd tea.Cmd
	f.picker, cmd = f.picker.Update(msg)

	if didSelect, path := f.picker.DidSelectFile(msg); didSelect {
		f.path = path
		f.status = ""
		f.cfg.Binding.OnChange(path)
		return f, cmd
	}
	if didSelect, path := f.picker.DidSelectDisabledFile(msg); didSelect {
		f.status = path + " is not an allowed type"
	}

	return f, cmd
}

func (f *File) View() string {
	st := f.cfg.Styles

	body := ""
	if f.path != "" {
		body = st.Success.Render(f.path)
	}
	if f.focused {
		if body != "" {
			body += "\n"
		}
		body += f.picker.View()
	} else if body == "" {
		body = st.Placeholder.Render(f.cfg.Placeholder)
	}

	return render(f.cfg, f.focused, body, f.status)
}

func (f *File) Focus() tea.Cmd {
	f.focused = true
	return f.picker.Init()
}

func (f *File) Blur() {
	f.focused = false
}

func (f *File) Name() string { return f.cfg.Binding.Name() }
