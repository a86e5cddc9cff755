package wanted

type CreatePersonRequest struct {
	Name     string  `json:"name"`
	Crime    string  `json:"crime"`
	Status   string  `json:"status"`
	ImageURL *string `json:"imageUrl"`
}

type UpdatePersonRequest struct {
	Name     *string `json:"name"`
	Crime    *string `json:"crime"`
	Status   *string `json:"status"`
	ImageURL *string `json:"imageUrl"`
}

type CreateVehicleRequest struct {
	PlateNumber string  `json:"plateNumber"`
	VehicleType string  `json:"vehicleType"`
	Color       *string `json:"color"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	Visibility  string  `json:"visibility"`
	ImageURL    *string `json:"imageUrl"`
	Notes       *string `json:"notes"`
}

type UpdateVehicleRequest struct {
	PlateNumber *string `json:"plateNumber"`
	VehicleType *string `json:"vehicleType"`
	Color       *string `json:"color"`
	Reason      *string `json:"reason"`
	Status      *string `json:"status"`
	Visibility  *string `json:"visibility"`
	ImageURL    *string `json:"imageUrl"`
	Notes       *string `json:"notes"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
