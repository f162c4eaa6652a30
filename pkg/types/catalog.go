package types

// Entity type names as they appear as wire root elements.
const (
	EntityAccount        = "Account"
	EntityCustomer       = "Customer"
	EntityTicket         = "Ticket"
	EntityAsset          = "Asset"
	EntityProduct        = "Product"
	EntityArticle        = "Article"
	EntityDownload       = "Download"
	EntityCsr            = "Csr"
	EntityDepartment     = "Department"
	EntityArticleFolder  = "ArticleFolder"
	EntityDownloadFolder = "DownloadFolder"
	EntityProductFolder  = "ProductFolder"
)

// Referenced-only types. They appear inside reference fields but have no
// schema of their own here.
const (
	EntitySla          = "Sla"
	EntityStatus       = "Status"
	EntityCustomerRole = "CustomerRole"
	EntityCsrRole      = "CsrRole"
	EntityTimezone     = "Timezone"
	EntityQueue        = "Queue"
	EntityEula         = "Eula"
)

// Common static field names.
const (
	FieldDateCreated = "Date_Created"
	FieldDateUpdated = "Date_Updated"
	FieldCreatedBy   = "Created_By"
	FieldModifiedBy  = "Modified_By"
	FieldFolders     = "Folders"
)

func str(name string) FieldSpec  { return FieldSpec{Name: name, DataType: DataTypeString} }
func text(name string) FieldSpec { return FieldSpec{Name: name, DataType: DataTypeString, CDATA: true} }
func flag(name string) FieldSpec { return FieldSpec{Name: name, DataType: DataTypeBoolean} }

func ref(name, refType string) FieldSpec {
	return FieldSpec{Name: name, DataType: DataTypeEntity, RefType: refType}
}

func refs(name, refType string) FieldSpec {
	return FieldSpec{Name: name, DataType: DataTypeEntityList, RefType: refType}
}

func attachments(name string) FieldSpec {
	return FieldSpec{Name: name, DataType: DataTypeAttachment}
}

func serverDate(name string) FieldSpec {
	return FieldSpec{Name: name, DataType: DataTypeDate, ReadOnly: true}
}

func serverRef(name, refType string) FieldSpec {
	return FieldSpec{Name: name, DataType: DataTypeEntity, RefType: refType, ReadOnly: true}
}

var catalog = []*Schema{
	NewSchema(EntityAccount, "Account_Name",
		str("Account_Name"),
		ref("Sla", EntitySla),
		refs("Shown_Accounts", EntityAccount),
		ref("Default_Customer_Role", EntityCustomerRole),
		serverRef(FieldModifiedBy, EntityCsr),
		serverRef("Owned_By", EntityCsr),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityCustomer, "Email",
		str("First_Name"),
		str("Last_Name"),
		str("Email"),
		str("User_Name"),
		str("Password"),
		str("Password_Confirm"),
		ref("Sla", EntitySla),
		ref("Customer_Role", EntityCustomerRole),
		ref("Account", EntityAccount),
		ref("Status", EntityStatus),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityAsset, "Name",
		str("Name"),
		str("Serial_Number"),
		ref("Status", EntityStatus),
		ref("Product", EntityProduct),
		ref("Customer_Owner", EntityCustomer),
		ref("Account_Owner", EntityAccount),
		serverRef(FieldCreatedBy, EntityCsr),
		serverRef(FieldModifiedBy, EntityCsr),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityTicket, "Ticket_Number",
		FieldSpec{Name: "Ticket_Number", DataType: DataTypeString, ReadOnly: true},
		FieldSpec{Name: "Cc_Csr", DataType: DataTypeStringList},
		FieldSpec{Name: "Cc_Customer", DataType: DataTypeStringList},
		ref("Ticket_Product", EntityProduct),
		ref("Ticket_Asset", EntityAsset),
		flag("Email_Notification"),
		flag("Email_Notification_Additional_Contact"),
		ref("Ticket_Customer", EntityCustomer),
		flag("Hide_From_Customer"),
		ref("Additional_Contact", EntityCustomer),
		ref("Department", EntityDepartment),
		ref("Ticket_Parent", EntityTicket),
		refs("Ticket_Children", EntityTicket),
		attachments("Ticket_Attachments"),
		serverRef("Ticket_Status", EntityStatus),
		serverRef("Ticket_Queue", EntityQueue),
		serverRef("Entered_By", EntityCsr),
		serverRef("Assigned_To", EntityCsr),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityProduct, "Name",
		str("Name"),
		str("Sku"),
		str("Currency"),
		str("Price"),
		str("Shortdesc"),
		text("Longdesc"),
		flag("Visible"),
		flag("Instock"),
		ref("Folder", EntityProductFolder),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityArticle, "Question",
		str("Question"),
		text("Answer"),
		flag("Published"),
		str("Expiration_Date"),
		refs("Permissions", EntitySla),
		refs("Products", EntityProduct),
		refs(FieldFolders, EntityArticleFolder),
		serverRef(FieldCreatedBy, EntityCsr),
		serverRef(FieldModifiedBy, EntityCsr),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityDownload, "Name",
		str("Name"),
		str("Title"),
		text("Description"),
		str("Guid"),
		str("External_Link"),
		flag("Published"),
		flag("Visible"),
		FieldSpec{Name: FieldFolders, DataType: DataTypeEntityList, RefType: EntityDownloadFolder, Folders: true, SingleName: "Folder"},
		refs("Permissions", EntitySla),
		refs("Products", EntityProduct),
		ref("Eula", EntityEula),
		attachments("Attachments"),
		serverDate(FieldDateCreated),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityCsr, "Full_Name",
		str("Full_Name"),
		str("Screen_Name"),
		str("Email"),
		str("Password"),
		str("Date_Format"),
		text("Fax"),
		text("Phone_1"),
		text("Phone_2"),
		refs("Role", EntityCsrRole),
		ref("Status", EntityStatus),
		ref("Timezone", EntityTimezone),
		serverDate(FieldDateCreated),
	),
	NewSchema(EntityDepartment, "Name",
		str("Name"),
		str("Description"),
	),
	NewSchema(EntityArticleFolder, "Name",
		str("Name"),
		flag("Is_Private"),
		ref("Parent_Folder", EntityArticleFolder),
	),
	NewSchema(EntityDownloadFolder, "Name",
		flag("Is_Private"),
		str("Name"),
		str("Description"),
		ref("Parent_Folder", EntityDownloadFolder),
		serverDate(FieldDateUpdated),
	),
	NewSchema(EntityProductFolder, "Name",
		flag("Is_Private"),
		str("Name"),
		str("Description"),
		ref("Parent_Folder", EntityProductFolder),
	),
}

func init() {
	for _, s := range catalog {
		register(s)
	}
}
