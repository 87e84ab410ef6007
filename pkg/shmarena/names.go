package shmarena

import "fmt"

// QualityType selects which half of a mixed-criticality deployment a
// control object belongs to.
type QualityType int

const (
	QualityQM QualityType = iota
	QualityASIL
)

// DataObjectName returns the bit-exact shared-memory object name for an
// instance's data region.
func DataObjectName(serviceID uint64, instanceID uint16) string {
	return fmt.Sprintf("lola-data-%016x-%05d", serviceID, instanceID)
}

// ControlObjectName returns the bit-exact shared-memory object name for an
// instance's control region. The ASIL control object appends "-b".
func ControlObjectName(serviceID uint64, instanceID uint16, quality QualityType) string {
	base := fmt.Sprintf("lola-ctl-%016x-%05d", serviceID, instanceID)
	if quality == QualityASIL {
		return base + "-b"
	}
	return base
}
