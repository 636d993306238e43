package htmlio

// DefaultTaskListAttr is the ul type attribute value that marks a task list.
const DefaultTaskListAttr = "task-list"

// Options controls HTML conversion.
type Options struct {
	// TaskListAttr is the value of the type attribute on a ul element that
	// marks it as a task list.
	TaskListAttr string

	// Pretty puts block elements on their own indented lines when exporting.
	Pretty bool
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{TaskListAttr: DefaultTaskListAttr}
}

func (o Options) taskListAttr() string {
	if o.TaskListAttr == "" {
		return DefaultTaskListAttr
	}
	return o.TaskListAttr
}
