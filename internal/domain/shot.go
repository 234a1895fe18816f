package domain

type ShotSize string

const (
	ShotSizeExtremeWide    ShotSize = "extreme_wide"
	ShotSizeWide           ShotSize = "wide"
	ShotSizeFull           ShotSize = "full"
	ShotSizeMedium         ShotSize = "medium"
	ShotSizeMediumCloseUp  ShotSize = "medium_close_up"
	ShotSizeCloseUp        ShotSize = "close_up"
	ShotSizeExtremeCloseUp ShotSize = "extreme_close_up"
)

type ShotType string

const (
	ShotTypeMaster       ShotType = "master"
	ShotTypeCoverage     ShotType = "coverage"
	ShotTypeInsert       ShotType = "insert"
	ShotTypeCutaway      ShotType = "cutaway"
	ShotTypeReaction     ShotType = "reaction"
	ShotTypePOV          ShotType = "pov"
	ShotTypeOverShoulder ShotType = "over_shoulder"
)

type CameraMovement string

const (
	CameraMovementStatic    CameraMovement = "static"
	CameraMovementPan       CameraMovement = "pan"
	CameraMovementTilt      CameraMovement = "tilt"
	CameraMovementZoom      CameraMovement = "zoom"
	CameraMovementDolly     CameraMovement = "dolly"
	CameraMovementTracking  CameraMovement = "tracking"
	CameraMovementCrane     CameraMovement = "crane"
	CameraMovementHandheld  CameraMovement = "handheld"
	CameraMovementSteadicam CameraMovement = "steadicam"
)

type Equipment string

const (
	EquipmentTripod       Equipment = "tripod"
	EquipmentDolly        Equipment = "dolly"
	EquipmentCrane        Equipment = "crane"
	EquipmentJib          Equipment = "jib"
	EquipmentGimbal       Equipment = "gimbal"
	EquipmentSteadicamRig Equipment = "steadicam_rig"
	EquipmentShoulderRig  Equipment = "shoulder_rig"
	EquipmentSlider       Equipment = "slider"
	EquipmentDrone        Equipment = "drone"
)

// Shot is one camera setup within a scene. All five fields are required;
// a breakdown carrying an incomplete shot must never reach a success result.
type Shot struct {
	Description    string         `json:"description"`
	Size           ShotSize       `json:"size"`
	Type           ShotType       `json:"type"`
	CameraMovement CameraMovement `json:"camera_movement"`
	Equipment      Equipment      `json:"equipment"`
}

var shotSizes = map[ShotSize]struct{}{
	ShotSizeExtremeWide:    {},
	ShotSizeWide:           {},
	ShotSizeFull:           {},
	ShotSizeMedium:         {},
	ShotSizeMediumCloseUp:  {},
	ShotSizeCloseUp:        {},
	ShotSizeExtremeCloseUp: {},
}

var shotTypes = map[ShotType]struct{}{
	ShotTypeMaster:       {},
	ShotTypeCoverage:     {},
	ShotTypeInsert:       {},
	ShotTypeCutaway:      {},
	ShotTypeReaction:     {},
	ShotTypePOV:          {},
	ShotTypeOverShoulder: {},
}

var cameraMovements = map[CameraMovement]struct{}{
	CameraMovementStatic:    {},
	CameraMovementPan:       {},
	CameraMovementTilt:      {},
	CameraMovementZoom:      {},
	CameraMovementDolly:     {},
	CameraMovementTracking:  {},
	CameraMovementCrane:     {},
	CameraMovementHandheld:  {},
	CameraMovementSteadicam: {},
}

var equipmentKinds = map[Equipment]struct{}{
	EquipmentTripod:       {},
	EquipmentDolly:        {},
	EquipmentCrane:        {},
	EquipmentJib:          {},
	EquipmentGimbal:       {},
	EquipmentSteadicamRig: {},
	EquipmentShoulderRig:  {},
	EquipmentSlider:       {},
	EquipmentDrone:        {},
}

func (s ShotSize) Valid() bool {
	_, ok := shotSizes[s]
	return ok
}

func (t ShotType) Valid() bool {
	_, ok := shotTypes[t]
	return ok
}

func (m CameraMovement) Valid() bool {
	_, ok := cameraMovements[m]
	return ok
}

func (e Equipment) Valid() bool {
	_, ok := equipmentKinds[e]
	return ok
}

// ShotSizeValues lists the accepted wire values, in framing order.
func ShotSizeValues() []string {
	return []string{
		string(ShotSizeExtremeWide),
		string(ShotSizeWide),
		string(ShotSizeFull),
		string(ShotSizeMedium),
		string(ShotSizeMediumCloseUp),
		string(ShotSizeCloseUp),
		string(ShotSizeExtremeCloseUp),
	}
}

func ShotTypeValues() []string {
	return []string{
		string(ShotTypeMaster),
		string(ShotTypeCoverage),
		string(ShotTypeInsert),
		string(ShotTypeCutaway),
		string(ShotTypeReaction),
		string(ShotTypePOV),
		string(ShotTypeOverShoulder),
	}
}

func CameraMovementValues() []string {
	return []string{
		string(CameraMovementStatic),
		string(CameraMovementPan),
		string(CameraMovementTilt),
		string(CameraMovementZoom),
		string(CameraMovementDolly),
		string(CameraMovementTracking),
		string(CameraMovementCrane),
		string(CameraMovementHandheld),
		string(CameraMovementSteadicam),
	}
}

func EquipmentValues() []string {
	return []string{
		string(EquipmentTripod),
		string(EquipmentDolly),
		string(EquipmentCrane),
		string(EquipmentJib),
		string(EquipmentGimbal),
		string(EquipmentSteadicamRig),
		string(EquipmentShoulderRig),
		string(EquipmentSlider),
		string(EquipmentDrone),
	}
}
