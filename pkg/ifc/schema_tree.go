package ifc

import (
	"strings"
)

// The IfcRoot subtree of each schema, one "Parent > Child Child ..." line per supertype.
// Resource entities (geometry, units, materials) sit outside IfcRoot and need no entry:
// they carry no GlobalId and are copied by reference only.

const ifc2x3Tree = `
IfcRoot > IfcObjectDefinition IfcPropertyDefinition IfcRelationship
IfcObjectDefinition > IfcObject IfcTypeObject
IfcObject > IfcActor IfcControl IfcGroup IfcProcess IfcProduct IfcProject IfcResource
IfcActor > IfcOccupant
IfcControl > IfcActionRequest IfcConditionCriterion IfcCostItem IfcCostSchedule IfcEquipmentStandard IfcFurnitureStandard IfcPerformanceHistory IfcPermit IfcProjectOrder IfcProjectOrderRecord IfcScheduleTimeControl IfcServiceLife IfcSpaceProgram IfcTimeSeriesSchedule IfcWorkControl
IfcWorkControl > IfcWorkPlan IfcWorkSchedule
IfcGroup > IfcAsset IfcCondition IfcInventory IfcStructuralLoadGroup IfcStructuralResultGroup IfcSystem
IfcStructuralLoadGroup > IfcStructuralLoadCase
IfcSystem > IfcElectricalCircuit IfcStructuralAnalysisModel IfcZone
IfcProcess > IfcProcedure IfcTask
IfcTask > IfcMove IfcOrderAction
IfcResource > IfcConstructionResource
IfcConstructionResource > IfcConstructionEquipmentResource IfcConstructionMaterialResource IfcConstructionProductResource IfcCrewResource IfcLaborResource IfcSubContractResource

IfcProduct > IfcAnnotation IfcElement IfcGrid IfcPort IfcProxy IfcSpatialStructureElement IfcStructuralActivity IfcStructuralItem
IfcElement > IfcBuildingElement IfcDistributionElement IfcElectricalElement IfcElementAssembly IfcElementComponent IfcEquipmentElement IfcFeatureElement IfcFurnishingElement IfcTransportElement IfcVirtualElement
IfcBuildingElement > IfcBeam IfcBuildingElementComponent IfcBuildingElementProxy IfcColumn IfcCovering IfcCurtainWall IfcDoor IfcFooting IfcMember IfcPile IfcPlate IfcRailing IfcRamp IfcRampFlight IfcRoof IfcSlab IfcStair IfcStairFlight IfcWall IfcWindow
IfcWall > IfcWallStandardCase
IfcBuildingElementComponent > IfcBuildingElementPart IfcReinforcingElement
IfcReinforcingElement > IfcReinforcingBar IfcReinforcingMesh IfcTendon IfcTendonAnchor
IfcElementComponent > IfcDiscreteAccessory IfcFastener
IfcFastener > IfcMechanicalFastener
IfcDistributionElement > IfcDistributionControlElement IfcDistributionFlowElement
IfcDistributionFlowElement > IfcDistributionChamberElement IfcEnergyConversionDevice IfcFlowController IfcFlowFitting IfcFlowMovingDevice IfcFlowSegment IfcFlowStorageDevice IfcFlowTerminal IfcFlowTreatmentDevice
IfcFeatureElement > IfcFeatureElementAddition IfcFeatureElementSubtraction
IfcFeatureElementAddition > IfcProjectionElement
IfcFeatureElementSubtraction > IfcEdgeFeature IfcOpeningElement
IfcEdgeFeature > IfcChamferEdgeFeature IfcRoundedEdgeFeature
IfcSpatialStructureElement > IfcBuilding IfcBuildingStorey IfcSite IfcSpace
IfcStructuralActivity > IfcStructuralAction IfcStructuralReaction
IfcStructuralAction > IfcStructuralLinearAction IfcStructuralPlanarAction IfcStructuralPointAction
IfcStructuralLinearAction > IfcStructuralLinearActionVarying
IfcStructuralPlanarAction > IfcStructuralPlanarActionVarying
IfcStructuralReaction > IfcStructuralPointReaction
IfcStructuralItem > IfcStructuralConnection IfcStructuralMember
IfcStructuralConnection > IfcStructuralCurveConnection IfcStructuralPointConnection IfcStructuralSurfaceConnection
IfcStructuralMember > IfcStructuralCurveMember IfcStructuralSurfaceMember
IfcStructuralCurveMember > IfcStructuralCurveMemberVarying
IfcStructuralSurfaceMember > IfcStructuralSurfaceMemberVarying
IfcPort > IfcDistributionPort

IfcTypeObject > IfcTypeProduct
IfcTypeProduct > IfcDoorStyle IfcElementType IfcWindowStyle
IfcElementType > IfcBuildingElementType IfcDistributionElementType IfcElementComponentType IfcFurnishingElementType IfcSpatialStructureElementType IfcTransportElementType
IfcBuildingElementType > IfcBeamType IfcBuildingElementProxyType IfcColumnType IfcCoveringType IfcCurtainWallType IfcMemberType IfcPlateType IfcRailingType IfcRampFlightType IfcSlabType IfcStairFlightType IfcWallType
IfcDistributionElementType > IfcDistributionControlElementType IfcDistributionFlowElementType
IfcDistributionControlElementType > IfcActuatorType IfcAlarmType IfcControllerType IfcFlowInstrumentType IfcSensorType
IfcDistributionFlowElementType > IfcDistributionChamberElementType IfcEnergyConversionDeviceType IfcFlowControllerType IfcFlowFittingType IfcFlowMovingDeviceType IfcFlowSegmentType IfcFlowStorageDeviceType IfcFlowTerminalType IfcFlowTreatmentDeviceType
IfcEnergyConversionDeviceType > IfcAirToAirHeatRecoveryType IfcBoilerType IfcChillerType IfcCoilType IfcCondenserType IfcCooledBeamType IfcCoolingTowerType IfcElectricGeneratorType IfcElectricMotorType IfcEvaporativeCoolerType IfcEvaporatorType IfcHeatExchangerType IfcHumidifierType IfcMotorConnectionType IfcSpaceHeaterType IfcTransformerType IfcTubeBundleType IfcUnitaryEquipmentType
IfcFlowControllerType > IfcAirTerminalBoxType IfcDamperType IfcElectricTimeControlType IfcFlowMeterType IfcProtectiveDeviceType IfcSwitchingDeviceType IfcValveType
IfcFlowFittingType > IfcCableCarrierFittingType IfcDuctFittingType IfcJunctionBoxType IfcPipeFittingType
IfcFlowMovingDeviceType > IfcCompressorType IfcFanType IfcPumpType
IfcFlowSegmentType > IfcCableCarrierSegmentType IfcCableSegmentType IfcDuctSegmentType IfcPipeSegmentType
IfcFlowStorageDeviceType > IfcElectricFlowStorageDeviceType IfcTankType
IfcFlowTerminalType > IfcAirTerminalType IfcElectricApplianceType IfcElectricHeaterType IfcFireSuppressionTerminalType IfcGasTerminalType IfcLampType IfcLightFixtureType IfcOutletType IfcSanitaryTerminalType IfcStackTerminalType IfcWasteTerminalType
IfcFlowTreatmentDeviceType > IfcDuctSilencerType IfcFilterType
IfcElementComponentType > IfcDiscreteAccessoryType IfcFastenerType
IfcDiscreteAccessoryType > IfcVibrationIsolatorType
IfcFastenerType > IfcMechanicalFastenerType
IfcFurnishingElementType > IfcFurnitureType IfcSystemFurnitureElementType
IfcSpatialStructureElementType > IfcSpaceType

IfcPropertyDefinition > IfcPropertySetDefinition
IfcPropertySetDefinition > IfcDoorLiningProperties IfcDoorPanelProperties IfcElementQuantity IfcEnergyProperties IfcFluidFlowProperties IfcPermeableCoveringProperties IfcPropertySet IfcReinforcementDefinitionProperties IfcServiceLifeFactor IfcSoundProperties IfcSoundValue IfcSpaceThermalLoadProperties IfcWindowLiningProperties IfcWindowPanelProperties
IfcEnergyProperties > IfcElectricalBaseProperties

IfcRelationship > IfcRelAssigns IfcRelAssociates IfcRelConnects IfcRelDecomposes IfcRelDefines
IfcRelAssigns > IfcRelAssignsToActor IfcRelAssignsToControl IfcRelAssignsToGroup IfcRelAssignsToProcess IfcRelAssignsToProduct IfcRelAssignsToResource
IfcRelAssignsToActor > IfcRelOccupiesSpaces
IfcRelAssignsToControl > IfcRelAssignsTasks IfcRelAssignsToProjectOrder IfcRelSchedulesCostItems
IfcRelAssociates > IfcRelAssociatesAppliedValue IfcRelAssociatesApproval IfcRelAssociatesClassification IfcRelAssociatesConstraint IfcRelAssociatesDocument IfcRelAssociatesLibrary IfcRelAssociatesMaterial IfcRelAssociatesProfileProperties
IfcRelConnects > IfcRelConnectsElements IfcRelConnectsPortToElement IfcRelConnectsPorts IfcRelConnectsStructuralActivity IfcRelConnectsStructuralElement IfcRelConnectsStructuralMember IfcRelContainedInSpatialStructure IfcRelCoversBldgElements IfcRelCoversSpaces IfcRelFillsElement IfcRelFlowControlElements IfcRelInteractionRequirements IfcRelProjectsElement IfcRelReferencedInSpatialStructure IfcRelSequence IfcRelServicesBuildings IfcRelSpaceBoundary IfcRelVoidsElement
IfcRelConnectsElements > IfcRelConnectsPathElements IfcRelConnectsWithRealizingElements
IfcRelConnectsStructuralMember > IfcRelConnectsWithEccentricity
IfcRelDecomposes > IfcRelAggregates IfcRelNests
IfcRelDefines > IfcRelDefinesByProperties IfcRelDefinesByType
IfcRelDefinesByProperties > IfcRelOverridesProperties
`

const ifc4Tree = `
IfcRoot > IfcObjectDefinition IfcPropertyDefinition IfcRelationship
IfcObjectDefinition > IfcContext IfcObject IfcTypeObject
IfcContext > IfcProject IfcProjectLibrary
IfcObject > IfcActor IfcControl IfcGroup IfcProcess IfcProduct IfcResource
IfcActor > IfcOccupant
IfcControl > IfcActionRequest IfcCostItem IfcCostSchedule IfcPerformanceHistory IfcPermit IfcProjectOrder IfcWorkCalendar IfcWorkControl
IfcWorkControl > IfcWorkPlan IfcWorkSchedule
IfcGroup > IfcAsset IfcInventory IfcStructuralLoadGroup IfcStructuralResultGroup IfcSystem
IfcStructuralLoadGroup > IfcStructuralLoadCase
IfcSystem > IfcBuildingSystem IfcDistributionSystem IfcStructuralAnalysisModel IfcZone
IfcDistributionSystem > IfcDistributionCircuit
IfcProcess > IfcEvent IfcProcedure IfcTask
IfcResource > IfcConstructionResource
IfcConstructionResource > IfcConstructionEquipmentResource IfcConstructionMaterialResource IfcConstructionProductResource IfcCrewResource IfcLaborResource IfcSubContractResource

IfcProduct > IfcAnnotation IfcElement IfcGrid IfcPort IfcProxy IfcSpatialElement IfcStructuralActivity IfcStructuralItem
IfcElement > IfcBuildingElement IfcCivilElement IfcDistributionElement IfcElementAssembly IfcElementComponent IfcFeatureElement IfcFurnishingElement IfcGeographicElement IfcTransportElement IfcVirtualElement
IfcBuildingElement > IfcBeam IfcBuildingElementProxy IfcChimney IfcColumn IfcCovering IfcCurtainWall IfcDoor IfcFooting IfcMember IfcPile IfcPlate IfcRailing IfcRamp IfcRampFlight IfcRoof IfcShadingDevice IfcSlab IfcStair IfcStairFlight IfcWall IfcWindow
IfcBeam > IfcBeamStandardCase
IfcColumn > IfcColumnStandardCase
IfcDoor > IfcDoorStandardCase
IfcMember > IfcMemberStandardCase
IfcPlate > IfcPlateStandardCase
IfcSlab > IfcSlabElementedCase IfcSlabStandardCase
IfcWall > IfcWallElementedCase IfcWallStandardCase
IfcWindow > IfcWindowStandardCase
IfcDistributionElement > IfcDistributionControlElement IfcDistributionFlowElement
IfcDistributionControlElement > IfcActuator IfcAlarm IfcController IfcFlowInstrument IfcProtectiveDeviceTrippingUnit IfcSensor IfcUnitaryControlElement
IfcDistributionFlowElement > IfcDistributionChamberElement IfcEnergyConversionDevice IfcFlowController IfcFlowFitting IfcFlowMovingDevice IfcFlowSegment IfcFlowStorageDevice IfcFlowTerminal IfcFlowTreatmentDevice
IfcEnergyConversionDevice > IfcAirToAirHeatRecovery IfcBoiler IfcBurner IfcChiller IfcCoil IfcCondenser IfcCooledBeam IfcCoolingTower IfcElectricGenerator IfcElectricMotor IfcEngine IfcEvaporativeCooler IfcEvaporator IfcHeatExchanger IfcHumidifier IfcMotorConnection IfcSolarDevice IfcTransformer IfcTubeBundle IfcUnitaryEquipment
IfcFlowController > IfcAirTerminalBox IfcDamper IfcElectricDistributionBoard IfcElectricTimeControl IfcFlowMeter IfcProtectiveDevice IfcSwitchingDevice IfcValve
IfcFlowFitting > IfcCableCarrierFitting IfcCableFitting IfcDuctFitting IfcJunctionBox IfcPipeFitting
IfcFlowMovingDevice > IfcCompressor IfcFan IfcPump
IfcFlowSegment > IfcCableCarrierSegment IfcCableSegment IfcDuctSegment IfcPipeSegment
IfcFlowStorageDevice > IfcElectricFlowStorageDevice IfcTank
IfcFlowTerminal > IfcAirTerminal IfcAudioVisualAppliance IfcCommunicationsAppliance IfcElectricAppliance IfcFireSuppressionTerminal IfcLamp IfcLightFixture IfcMedicalDevice IfcOutlet IfcSanitaryTerminal IfcSpaceHeater IfcStackTerminal IfcWasteTerminal
IfcFlowTreatmentDevice > IfcDuctSilencer IfcFilter IfcInterceptor
IfcElementComponent > IfcBuildingElementPart IfcDiscreteAccessory IfcFastener IfcMechanicalFastener IfcReinforcingElement IfcVibrationIsolator
IfcReinforcingElement > IfcReinforcingBar IfcReinforcingMesh IfcTendon IfcTendonAnchor
IfcFeatureElement > IfcFeatureElementAddition IfcFeatureElementSubtraction IfcSurfaceFeature
IfcFeatureElementAddition > IfcProjectionElement
IfcFeatureElementSubtraction > IfcOpeningElement IfcVoidingFeature
IfcOpeningElement > IfcOpeningStandardCase
IfcFurnishingElement > IfcFurniture IfcSystemFurnitureElement
IfcSpatialElement > IfcExternalSpatialStructureElement IfcSpatialStructureElement IfcSpatialZone
IfcExternalSpatialStructureElement > IfcExternalSpatialElement
IfcSpatialStructureElement > IfcBuilding IfcBuildingStorey IfcSite IfcSpace
IfcStructuralActivity > IfcStructuralAction IfcStructuralReaction
IfcStructuralAction > IfcStructuralCurveAction IfcStructuralPointAction IfcStructuralSurfaceAction
IfcStructuralCurveAction > IfcStructuralLinearAction
IfcStructuralSurfaceAction > IfcStructuralPlanarAction
IfcStructuralReaction > IfcStructuralCurveReaction IfcStructuralPointReaction IfcStructuralSurfaceReaction
IfcStructuralItem > IfcStructuralConnection IfcStructuralMember
IfcStructuralConnection > IfcStructuralCurveConnection IfcStructuralPointConnection IfcStructuralSurfaceConnection
IfcStructuralMember > IfcStructuralCurveMember IfcStructuralSurfaceMember
IfcStructuralCurveMember > IfcStructuralCurveMemberVarying
IfcStructuralSurfaceMember > IfcStructuralSurfaceMemberVarying
IfcPort > IfcDistributionPort

IfcTypeObject > IfcTypeProcess IfcTypeProduct IfcTypeResource
IfcTypeProcess > IfcEventType IfcProcedureType IfcTaskType
IfcTypeResource > IfcConstructionResourceType
IfcConstructionResourceType > IfcConstructionEquipmentResourceType IfcConstructionMaterialResourceType IfcConstructionProductResourceType IfcCrewResourceType IfcLaborResourceType IfcSubContractResourceType
IfcTypeProduct > IfcDoorStyle IfcElementType IfcSpatialElementType IfcWindowStyle
IfcElementType > IfcBuildingElementType IfcCivilElementType IfcDistributionElementType IfcElementAssemblyType IfcElementComponentType IfcFurnishingElementType IfcGeographicElementType IfcTransportElementType
IfcBuildingElementType > IfcBeamType IfcBuildingElementProxyType IfcChimneyType IfcColumnType IfcCoveringType IfcCurtainWallType IfcDoorType IfcFootingType IfcMemberType IfcPileType IfcPlateType IfcRailingType IfcRampFlightType IfcRampType IfcRoofType IfcShadingDeviceType IfcSlabType IfcStairFlightType IfcStairType IfcWallType IfcWindowType
IfcDistributionElementType > IfcDistributionControlElementType IfcDistributionFlowElementType
IfcDistributionControlElementType > IfcActuatorType IfcAlarmType IfcControllerType IfcFlowInstrumentType IfcProtectiveDeviceTrippingUnitType IfcSensorType IfcUnitaryControlElementType
IfcDistributionFlowElementType > IfcDistributionChamberElementType IfcEnergyConversionDeviceType IfcFlowControllerType IfcFlowFittingType IfcFlowMovingDeviceType IfcFlowSegmentType IfcFlowStorageDeviceType IfcFlowTerminalType IfcFlowTreatmentDeviceType
IfcEnergyConversionDeviceType > IfcAirToAirHeatRecoveryType IfcBoilerType IfcBurnerType IfcChillerType IfcCoilType IfcCondenserType IfcCooledBeamType IfcCoolingTowerType IfcElectricGeneratorType IfcElectricMotorType IfcEngineType IfcEvaporativeCoolerType IfcEvaporatorType IfcHeatExchangerType IfcHumidifierType IfcMotorConnectionType IfcSolarDeviceType IfcTransformerType IfcTubeBundleType IfcUnitaryEquipmentType
IfcFlowControllerType > IfcAirTerminalBoxType IfcDamperType IfcElectricDistributionBoardType IfcElectricTimeControlType IfcFlowMeterType IfcProtectiveDeviceType IfcSwitchingDeviceType IfcValveType
IfcFlowFittingType > IfcCableCarrierFittingType IfcCableFittingType IfcDuctFittingType IfcJunctionBoxType IfcPipeFittingType
IfcFlowMovingDeviceType > IfcCompressorType IfcFanType IfcPumpType
IfcFlowSegmentType > IfcCableCarrierSegmentType IfcCableSegmentType IfcDuctSegmentType IfcPipeSegmentType
IfcFlowStorageDeviceType > IfcElectricFlowStorageDeviceType IfcTankType
IfcFlowTerminalType > IfcAirTerminalType IfcAudioVisualApplianceType IfcCommunicationsApplianceType IfcElectricApplianceType IfcFireSuppressionTerminalType IfcLampType IfcLightFixtureType IfcMedicalDeviceType IfcOutletType IfcSanitaryTerminalType IfcSpaceHeaterType IfcStackTerminalType IfcWasteTerminalType
IfcFlowTreatmentDeviceType > IfcDuctSilencerType IfcFilterType IfcInterceptorType
IfcElementComponentType > IfcBuildingElementPartType IfcDiscreteAccessoryType IfcFastenerType IfcMechanicalFastenerType IfcReinforcingElementType IfcVibrationIsolatorType
IfcReinforcingElementType > IfcReinforcingBarType IfcReinforcingMeshType IfcTendonAnchorType IfcTendonType
IfcFurnishingElementType > IfcFurnitureType IfcSystemFurnitureElementType
IfcSpatialElementType > IfcSpatialStructureElementType IfcSpatialZoneType
IfcSpatialStructureElementType > IfcSpaceType

IfcPropertyDefinition > IfcPropertySetDefinition IfcPropertyTemplateDefinition
IfcPropertySetDefinition > IfcPreDefinedPropertySet IfcPropertySet IfcQuantitySet
IfcPreDefinedPropertySet > IfcDoorLiningProperties IfcDoorPanelProperties IfcPermeableCoveringProperties IfcReinforcementDefinitionProperties IfcWindowLiningProperties IfcWindowPanelProperties
IfcQuantitySet > IfcElementQuantity
IfcPropertyTemplateDefinition > IfcPropertySetTemplate IfcPropertyTemplate
IfcPropertyTemplate > IfcComplexPropertyTemplate IfcSimplePropertyTemplate

IfcRelationship > IfcRelAssigns IfcRelAssociates IfcRelConnects IfcRelDeclares IfcRelDecomposes IfcRelDefines
IfcRelAssigns > IfcRelAssignsToActor IfcRelAssignsToControl IfcRelAssignsToGroup IfcRelAssignsToProcess IfcRelAssignsToProduct IfcRelAssignsToResource
IfcRelAssignsToGroup > IfcRelAssignsToGroupByFactor
IfcRelAssociates > IfcRelAssociatesApproval IfcRelAssociatesClassification IfcRelAssociatesConstraint IfcRelAssociatesDocument IfcRelAssociatesLibrary IfcRelAssociatesMaterial
IfcRelConnects > IfcRelConnectsElements IfcRelConnectsPortToElement IfcRelConnectsPorts IfcRelConnectsStructuralActivity IfcRelConnectsStructuralMember IfcRelContainedInSpatialStructure IfcRelCoversBldgElements IfcRelCoversSpaces IfcRelFillsElement IfcRelFlowControlElements IfcRelInterferesElements IfcRelReferencedInSpatialStructure IfcRelSequence IfcRelServicesBuildings IfcRelSpaceBoundary
IfcRelConnectsElements > IfcRelConnectsPathElements IfcRelConnectsWithRealizingElements
IfcRelConnectsStructuralMember > IfcRelConnectsWithEccentricity
IfcRelSpaceBoundary > IfcRelSpaceBoundary1stLevel
IfcRelSpaceBoundary1stLevel > IfcRelSpaceBoundary2ndLevel
IfcRelDecomposes > IfcRelAggregates IfcRelNests IfcRelProjectsElement IfcRelVoidsElement
IfcRelDefines > IfcRelDefinesByObject IfcRelDefinesByProperties IfcRelDefinesByTemplate IfcRelDefinesByType
`

// ifc4x3Patch is applied on top of ifc4Tree. Later lines re-parent types that moved, and
// builtElementRename then moves the IfcBuildingElement branch onto IfcBuiltElement.
const ifc4x3Patch = `
IfcSystem > IfcBuiltSystem
IfcProduct > IfcLinearElement IfcPositioningElement
IfcPositioningElement > IfcGrid IfcLinearPositioningElement IfcReferent
IfcLinearPositioningElement > IfcAlignment
IfcLinearElement > IfcAlignmentCant IfcAlignmentHorizontal IfcAlignmentSegment IfcAlignmentVertical
IfcElement > IfcBuiltElement IfcGeotechnicalElement IfcTransportationDevice
IfcBuiltElement > IfcBearing IfcCourse IfcDeepFoundation IfcEarthworksElement IfcKerb IfcMooringDevice IfcNavigationElement IfcPavement IfcRail IfcTrackElement
IfcDeepFoundation > IfcCaissonFoundation IfcPile
IfcEarthworksElement > IfcEarthworksFill IfcReinforcedSoil
IfcTransportationDevice > IfcTransportElement IfcVehicle
IfcGeotechnicalElement > IfcGeotechnicalAssembly IfcGeotechnicalStratum
IfcGeotechnicalAssembly > IfcBorehole IfcGeomodel IfcGeoslice
IfcFlowSegment > IfcConveyorSegment
IfcFlowTerminal > IfcLiquidTerminal IfcMobileTelecommunicationsAppliance IfcSignal
IfcFlowTreatmentDevice > IfcElectricFlowTreatmentDevice
IfcElementComponent > IfcImpactProtectionDevice IfcSign IfcVibrationDamper
IfcFeatureElementSubtraction > IfcEarthworksCut
IfcSpatialStructureElement > IfcFacility IfcFacilityPart
IfcFacility > IfcBridge IfcBuilding IfcMarineFacility IfcRailway IfcRoad
IfcFacilityPart > IfcBridgePart IfcFacilityPartCommon IfcMarinePart IfcRailwayPart IfcRoadPart

IfcElementType > IfcBuiltElementType IfcTransportationDeviceType
IfcBuiltElementType > IfcBearingType IfcCourseType IfcDeepFoundationType IfcKerbType IfcMooringDeviceType IfcNavigationElementType IfcPavementType IfcRailType IfcTrackElementType
IfcDeepFoundationType > IfcCaissonFoundationType IfcPileType
IfcTransportationDeviceType > IfcTransportElementType IfcVehicleType
IfcFlowSegmentType > IfcConveyorSegmentType
IfcFlowTerminalType > IfcLiquidTerminalType IfcMobileTelecommunicationsApplianceType IfcSignalType
IfcFlowTreatmentDeviceType > IfcElectricFlowTreatmentDeviceType
IfcElementComponentType > IfcImpactProtectionDeviceType IfcSignType IfcVibrationDamperType

IfcRelAssociates > IfcRelAssociatesProfileDef
IfcRelConnects > IfcRelPositions
IfcRelDecomposes > IfcRelAdheresToElement
`

// parseTree reads "Parent > Child ..." lines into a child to parent map. A child listed
// again in a later line is re-parented.
func parseTree(trees ...string) map[string]string {
	parents := make(map[string]string)
	for _, tree := range trees {
		for line := range strings.SplitSeq(tree, "\n") {
			parent, children, ok := strings.Cut(line, ">")
			if !ok {
				continue
			}
			parent = strings.TrimSpace(parent)
			if _, known := parents[parent]; !known {
				parents[parent] = ""
			}
			for _, child := range strings.Fields(children) {
				parents[child] = parent
			}
		}
	}
	return parents
}

// builtElementRename moves every IfcBuildingElement and IfcBuildingElementType subtype
// onto the IFC4X3 names and drops the old supertypes.
func builtElementRename(parents map[string]string) map[string]string {
	renamed := map[string]string{
		"IfcBuildingElement":     "IfcBuiltElement",
		"IfcBuildingElementType": "IfcBuiltElementType",
	}
	out := make(map[string]string, len(parents))
	for child, parent := range parents {
		if _, gone := renamed[child]; gone {
			continue
		}
		if to, ok := renamed[parent]; ok {
			parent = to
		}
		out[child] = parent
	}
	return out
}
