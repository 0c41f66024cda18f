package labels

import (
	"fmt"
	"strings"
)

// OperationType identifies the kind of change an Operation applies.
type OperationType string

const (
	OperationCreate   OperationType = "create"
	OperationUpdate   OperationType = "update"
	OperationDelete   OperationType = "delete"
	OperationRename   OperationType = "rename"
	OperationNoChange OperationType = "no_change"
)

// Deletion reasons.
const (
	ReasonMarkedForDeletion = "marked for deletion"
	ReasonNotInConfig       = "not defined in configuration"
)

// Operation is one step of a reconciliation plan. Use the constructors below;
// which fields are set depends on Type.
type Operation struct {
	Type OperationType `json:"type"`
	// Name is the label name after the operation: the created, updated,
	// deleted or unchanged label, or the new name of a rename.
	Name string `json:"name"`
	// CurrentName is the observed name an update or rename starts from.
	CurrentName string        `json:"current_name,omitempty"`
	Label       *DesiredLabel `json:"label,omitempty"`
	Changes     []string      `json:"changes,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

// CreateOperation creates label.
func CreateOperation(label DesiredLabel) Operation {
	return Operation{Type: OperationCreate, Name: label.Name, Label: &label}
}

// UpdateOperation changes the color or description of currentName.
func UpdateOperation(currentName string, label DesiredLabel, changes []string) Operation {
	return Operation{
		Type:        OperationUpdate,
		Name:        label.Name,
		CurrentName: currentName,
		Label:       &label,
		Changes:     changes,
	}
}

// DeleteOperation removes name.
func DeleteOperation(name, reason string) Operation {
	return Operation{Type: OperationDelete, Name: name, Reason: reason}
}

// RenameOperation turns currentName into label.
func RenameOperation(currentName string, label DesiredLabel) Operation {
	return Operation{
		Type:        OperationRename,
		Name:        label.Name,
		CurrentName: currentName,
		Label:       &label,
	}
}

// NoChangeOperation records that name already matches.
func NoChangeOperation(name string) Operation {
	return Operation{Type: OperationNoChange, Name: name}
}

// IsChange reports whether the operation mutates the store.
func (o Operation) IsChange() bool {
	return o.Type != OperationNoChange
}

func (o Operation) String() string {
	switch o.Type {
	case OperationCreate:
		return fmt.Sprintf("create label '%s'", o.Name)
	case OperationUpdate:
		if len(o.Changes) == 0 {
			return fmt.Sprintf("update label '%s'", o.CurrentName)
		}
		return fmt.Sprintf("update label '%s' (%s)", o.CurrentName, strings.Join(o.Changes, ", "))
	case OperationDelete:
		return fmt.Sprintf("delete label '%s' (%s)", o.Name, o.Reason)
	case OperationRename:
		return fmt.Sprintf("rename label '%s' to '%s'", o.CurrentName, o.Name)
	case OperationNoChange:
		return fmt.Sprintf("keep label '%s'", o.Name)
	default:
		return fmt.Sprintf("%s label '%s'", o.Type, o.Name)
	}
}
