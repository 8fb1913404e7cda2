package customers

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	GSTIN   *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	GSTIN    *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListCustomersRequest struct {
	Search string
	Limit  int
	Offset int
}
