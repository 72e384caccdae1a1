package abi

import "github.com/wippyai/vssetup/com"

// CLSIDSetupConfiguration identifies the coclass that implements
// ISetupConfiguration.
var CLSIDSetupConfiguration = com.MustParseGUID("177F0C4A-1CD3-4DE7-A32C-71DBBB9FA36D")

// Interface identifiers.
var (
	IIDUnknown = com.MustParseGUID("00000000-0000-0000-C000-000000000046")

	IIDSetupConfiguration  = com.MustParseGUID("42843719-DB4C-46C2-8E7C-64F1816EFD5B")
	IIDSetupConfiguration2 = com.MustParseGUID("26AAB78C-4A60-49D6-AF3B-3C35BC93365D")

	IIDEnumSetupInstances = com.MustParseGUID("6380BCFF-41D3-4B2E-8B2E-BF8A6810C848")

	IIDSetupInstance        = com.MustParseGUID("B41463C3-8866-43B5-BC33-2B0676F7F42E")
	IIDSetupInstance2       = com.MustParseGUID("89143C9A-05AF-49B0-B717-72E218A2185C")
	IIDSetupInstanceCatalog = com.MustParseGUID("9AD8E40F-39A2-40F1-BF64-0A6C50DD9EEB")

	IIDSetupPackageReference        = com.MustParseGUID("DA8D8A16-B2B6-4487-A2F1-594CCCCD6BF5")
	IIDSetupProductReference        = com.MustParseGUID("A170B5EF-223D-492B-B2D4-945032980685")
	IIDSetupProductReference2       = com.MustParseGUID("279A5DB3-7503-444B-B34D-308F961B9A06")
	IIDSetupFailedPackageReference  = com.MustParseGUID("E73559CD-7003-4022-B134-27DC650B280F")
	IIDSetupFailedPackageReference2 = com.MustParseGUID("0FAD873E-E874-42E3-B268-4FE2F096B9CA")
	IIDSetupFailedPackageReference3 = com.MustParseGUID("EBC3AE68-AD15-44E8-8377-39DBF0316F6C")

	IIDSetupErrorState  = com.MustParseGUID("46DCCD94-A287-476A-851E-DFBC2FFDBC20")
	IIDSetupErrorState2 = com.MustParseGUID("9871385B-CA69-48F2-BC1F-7A37CBF0B1EF")
	IIDSetupErrorState3 = com.MustParseGUID("290019AD-28E2-46D5-9DE5-DA4B6BCF8057")
	IIDSetupErrorInfo   = com.MustParseGUID("2A2F3292-958E-4905-B36E-013BE84E27AB")

	IIDSetupPropertyStore          = com.MustParseGUID("C601C175-A3BE-44BC-91F6-4568D230FC83")
	IIDSetupLocalizedProperties    = com.MustParseGUID("F4BD7382-FE27-4AB4-B974-9905B2A148B0")
	IIDSetupLocalizedPropertyStore = com.MustParseGUID("5BB53126-E0D5-43DF-80F1-6B161E5C6F6C")

	IIDSetupPolicy = com.MustParseGUID("E1DA4CBD-64C4-4C44-821D-98FAB64C4DA7")
	IIDSetupHelper = com.MustParseGUID("42B21B78-6192-463E-87BF-D577838F1D5C")
)
